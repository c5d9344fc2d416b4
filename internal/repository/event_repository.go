package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"service-schedule/internal/domain"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type EventRepository interface {
	Insert(ctx context.Context, event domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListOverlapping(ctx context.Context, from time.Time, to time.Time) ([]domain.Event, error)
	ListByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Event, error)
	ListDecided(ctx context.Context) ([]domain.Event, error)
}

type EventPostgresRepository struct {
	execer Execer
}

func NewEventPostgresRepository(execer Execer) *EventPostgresRepository {
	return &EventPostgresRepository{execer: execer}
}

const eventColumns = `id, title, start_time, end_time, kind, status, faculty, room, details, created_at, updated_at`

func (r *EventPostgresRepository) Insert(ctx context.Context, event domain.Event) error {
	const query = `
INSERT INTO schedule.events (
	id,
	title,
	start_time,
	end_time,
	kind,
	status,
	faculty,
	room,
	details,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
`

	_, err := r.execer.ExecContext(
		ctx,
		query,
		event.ID,
		event.Title,
		event.Start,
		event.End,
		string(event.Kind),
		string(event.Status),
		nullString(event.Faculty),
		nullString(event.Room),
		nullString(event.Details),
	)
	return err
}

func (r *EventPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM schedule.events
WHERE id = $1
`

	return scanEvent(r.execer.QueryRowContext(ctx, query, id))
}

func (r *EventPostgresRepository) Update(ctx context.Context, event domain.Event) error {
	const query = `
UPDATE schedule.events
SET title = $2,
	start_time = $3,
	end_time = $4,
	kind = $5,
	faculty = $6,
	room = $7,
	details = $8,
	updated_at = now()
WHERE id = $1
`

	result, err := r.execer.ExecContext(
		ctx,
		query,
		event.ID,
		event.Title,
		event.Start,
		event.End,
		string(event.Kind),
		nullString(event.Faculty),
		nullString(event.Room),
		nullString(event.Details),
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *EventPostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error {
	const query = `
UPDATE schedule.events
SET status = $2, updated_at = now()
WHERE id = $1
`

	result, err := r.execer.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *EventPostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM schedule.events WHERE id = $1`

	result, err := r.execer.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *EventPostgresRepository) ListOverlapping(ctx context.Context, from time.Time, to time.Time) ([]domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM schedule.events
WHERE start_time < $2 AND end_time > $1
ORDER BY start_time ASC
`

	return r.list(ctx, query, from, to)
}

func (r *EventPostgresRepository) ListByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM schedule.events
WHERE status = $1
ORDER BY start_time ASC
`

	return r.list(ctx, query, string(status))
}

func (r *EventPostgresRepository) ListDecided(ctx context.Context) ([]domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM schedule.events
WHERE status <> 'pending'
ORDER BY updated_at DESC
`

	return r.list(ctx, query)
}

func (r *EventPostgresRepository) list(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.execer.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var event domain.Event
	var kind, status string
	var faculty, room, details sql.NullString
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Start,
		&event.End,
		&kind,
		&status,
		&faculty,
		&room,
		&details,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return domain.Event{}, err
	}
	event.Kind = domain.EventKind(kind)
	event.Status = domain.ApprovalStatus(status)
	if faculty.Valid {
		event.Faculty = faculty.String
	}
	if room.Valid {
		event.Room = room.String
	}
	if details.Valid {
		event.Details = details.String
	}
	return event, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
