package repository

import (
	"context"

	"github.com/google/uuid"

	"service-schedule/internal/domain"
)

type SubstitutionRepository interface {
	Insert(ctx context.Context, request domain.SubstitutionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.SubstitutionRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error
	List(ctx context.Context, status *domain.ApprovalStatus) ([]domain.SubstitutionRequest, error)
}

type SubstitutionPostgresRepository struct {
	execer Execer
}

func NewSubstitutionPostgresRepository(execer Execer) *SubstitutionPostgresRepository {
	return &SubstitutionPostgresRepository{execer: execer}
}

const substitutionColumns = `id, original_faculty, substitute_faculty, date, course, status, created_at, updated_at`

func (r *SubstitutionPostgresRepository) Insert(ctx context.Context, request domain.SubstitutionRequest) error {
	const query = `
INSERT INTO schedule.substitution_requests (
	id,
	original_faculty,
	substitute_faculty,
	date,
	course,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
`

	_, err := r.execer.ExecContext(
		ctx,
		query,
		request.ID,
		request.Original,
		request.Substitute,
		request.Date,
		request.Course,
		string(request.Status),
	)
	return err
}

func (r *SubstitutionPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SubstitutionRequest, error) {
	const query = `
SELECT ` + substitutionColumns + `
FROM schedule.substitution_requests
WHERE id = $1
`

	var request domain.SubstitutionRequest
	var status string
	if err := r.execer.QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.Original,
		&request.Substitute,
		&request.Date,
		&request.Course,
		&status,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return domain.SubstitutionRequest{}, err
	}
	request.Status = domain.ApprovalStatus(status)

	return request, nil
}

func (r *SubstitutionPostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error {
	const query = `
UPDATE schedule.substitution_requests
SET status = $2, updated_at = now()
WHERE id = $1
`

	result, err := r.execer.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *SubstitutionPostgresRepository) List(ctx context.Context, status *domain.ApprovalStatus) ([]domain.SubstitutionRequest, error) {
	query := `
SELECT ` + substitutionColumns + `
FROM schedule.substitution_requests
ORDER BY created_at DESC
`
	args := []any{}
	if status != nil {
		query = `
SELECT ` + substitutionColumns + `
FROM schedule.substitution_requests
WHERE status = $1
ORDER BY created_at DESC
`
		args = append(args, string(*status))
	}

	rows, err := r.execer.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.SubstitutionRequest
	for rows.Next() {
		var request domain.SubstitutionRequest
		var requestStatus string
		if err := rows.Scan(
			&request.ID,
			&request.Original,
			&request.Substitute,
			&request.Date,
			&request.Course,
			&requestStatus,
			&request.CreatedAt,
			&request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		request.Status = domain.ApprovalStatus(requestStatus)
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
