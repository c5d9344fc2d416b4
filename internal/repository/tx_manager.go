package repository

import (
	"context"
	"database/sql"
)

type TxRepositories struct {
	Events        EventRepository
	Substitutions SubstitutionRepository
	Settings      DigestSettingsRepository
	Outbox        OutboxRepository
}

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

type PostgresTxManager struct {
	db *sql.DB
}

func NewPostgresTxManager(db *sql.DB) *PostgresTxManager {
	return &PostgresTxManager{db: db}
}

func (m *PostgresTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	repos := TxRepositories{
		Events:        NewEventPostgresRepository(tx),
		Substitutions: NewSubstitutionPostgresRepository(tx),
		Settings:      NewDigestSettingsPostgresRepository(tx),
		Outbox:        NewOutboxPostgresRepository(tx),
	}

	if err := fn(ctx, repos); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	return tx.Commit()
}
