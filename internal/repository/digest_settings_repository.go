package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"service-schedule/internal/domain"
)

type DigestSettingsRepository interface {
	ListAll(ctx context.Context) ([]domain.DigestSettings, error)
	MarkSent(ctx context.Context, departmentID uuid.UUID, date time.Time) (bool, error)
}

type DigestSettingsPostgresRepository struct {
	execer Execer
}

func NewDigestSettingsPostgresRepository(execer Execer) *DigestSettingsPostgresRepository {
	return &DigestSettingsPostgresRepository{execer: execer}
}

func (r *DigestSettingsPostgresRepository) ListAll(ctx context.Context) ([]domain.DigestSettings, error) {
	const query = `
SELECT department_id, channel, digest_time, template, last_sent_date
FROM schedule.digest_settings
ORDER BY department_id
`

	rows, err := r.execer.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.DigestSettings
	for rows.Next() {
		var entry domain.DigestSettings
		var lastSent sql.NullTime
		if err := rows.Scan(
			&entry.DepartmentID,
			&entry.Channel,
			&entry.DigestTime,
			&entry.Template,
			&lastSent,
		); err != nil {
			return nil, err
		}
		if lastSent.Valid {
			entry.LastSentDate = &lastSent.Time
		}
		settings = append(settings, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// MarkSent advances last_sent_date and reports whether this call won the
// update. A false return means another instance already sent today's digest.
func (r *DigestSettingsPostgresRepository) MarkSent(ctx context.Context, departmentID uuid.UUID, date time.Time) (bool, error) {
	const query = `
UPDATE schedule.digest_settings
SET last_sent_date = $2
WHERE department_id = $1
  AND (last_sent_date IS NULL OR last_sent_date < $2)
`

	result, err := r.execer.ExecContext(ctx, query, departmentID, date)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
