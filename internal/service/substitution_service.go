package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-schedule/internal/domain"
	"service-schedule/internal/repository"
)

// SubstitutionCandidate carries the caller-supplied fields of a proposed
// faculty substitution.
type SubstitutionCandidate struct {
	Original   string
	Substitute string
	Course     string
	Date       time.Time
}

// CreateSubstitutionRequest inserts a new substitution request with status
// pending. Substitutions live in their own store and never occupy a room, so
// no booking conflict check applies.
func (s *ScheduleService) CreateSubstitutionRequest(ctx context.Context, candidate SubstitutionCandidate) (domain.SubstitutionRequest, error) {
	original := strings.TrimSpace(candidate.Original)
	substitute := strings.TrimSpace(candidate.Substitute)
	course := strings.TrimSpace(candidate.Course)
	if original == "" || substitute == "" || course == "" || candidate.Date.IsZero() {
		return domain.SubstitutionRequest{}, ErrInvalidInput
	}
	if original == substitute {
		return domain.SubstitutionRequest{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request := domain.SubstitutionRequest{
		ID:         uuid.New(),
		Original:   original,
		Substitute: substitute,
		Date:       truncateToDateLocal(candidate.Date),
		Course:     course,
		Status:     domain.StatusPending,
	}

	var created domain.SubstitutionRequest
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if err := repos.Substitutions.Insert(ctx, request); err != nil {
			return err
		}
		var err error
		created, err = repos.Substitutions.GetByID(ctx, request.ID)
		return err
	})
	if err != nil {
		return domain.SubstitutionRequest{}, err
	}

	s.logger.Info("substitution requested",
		zap.String("request_id", created.ID.String()),
		zap.String("course", created.Course),
	)
	return created, nil
}

// SetSubstitutionStatus applies an approval decision to a substitution
// request, under the same lifecycle rules as events.
func (s *ScheduleService) SetSubstitutionStatus(ctx context.Context, id uuid.UUID, next domain.ApprovalStatus, decidedBy uuid.UUID) (domain.SubstitutionRequest, error) {
	if next != domain.StatusApproved && next != domain.StatusRejected {
		return domain.SubstitutionRequest{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var decided domain.SubstitutionRequest
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		request, err := repos.Substitutions.GetByID(ctx, id)
		if err != nil {
			return mapNoRows(err)
		}
		if !request.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if err := repos.Substitutions.UpdateStatus(ctx, id, next); err != nil {
			return mapNoRows(err)
		}

		decided, err = repos.Substitutions.GetByID(ctx, id)
		if err != nil {
			return err
		}

		payload := domain.SubstitutionDecidedPayload{
			RequestID:  id.String(),
			Decision:   string(next),
			DecidedBy:  decidedBy.String(),
			Original:   decided.Original,
			Substitute: decided.Substitute,
			Course:     decided.Course,
			Date:       decided.Date.Format("2006-01-02"),
		}
		return repos.Outbox.Insert(ctx, domain.ScheduleEvent{
			EventType: "SubstitutionDecided",
			Payload:   payload,
		})
	})
	if err != nil {
		return domain.SubstitutionRequest{}, err
	}

	s.logger.Info("substitution decided",
		zap.String("request_id", id.String()),
		zap.String("decision", string(next)),
	)
	return decided, nil
}

// ListSubstitutionRequests returns substitution requests, optionally filtered
// by status, most recent first.
func (s *ScheduleService) ListSubstitutionRequests(ctx context.Context, status *domain.ApprovalStatus) ([]domain.SubstitutionRequest, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidInput
	}

	var requests []domain.SubstitutionRequest
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		requests, err = repos.Substitutions.List(ctx, status)
		return err
	})
	return requests, err
}
