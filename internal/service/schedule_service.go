package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-schedule/internal/domain"
	"service-schedule/internal/repository"
)

// ScheduleService owns all mutation of the event and substitution stores.
// Every operation runs inside a single transaction, and mutating operations
// are additionally serialized by a mutex so that two concurrent creates can
// never both pass conflict detection against a stale snapshot.
type ScheduleService struct {
	txManager repository.TxManager
	logger    *zap.Logger
	clock     func() time.Time

	mu sync.Mutex
}

func NewScheduleService(txManager repository.TxManager, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		txManager: txManager,
		logger:    logger,
		clock:     time.Now,
	}
}

// CreateEvent validates the candidate, checks it against existing bookings
// and inserts it with status pending. On any failure the store is untouched.
func (s *ScheduleService) CreateEvent(ctx context.Context, candidate EventCandidate) (domain.Event, error) {
	normalized, err := validateCandidate(candidate)
	if err != nil {
		return domain.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created domain.Event
	err = s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		existing, err := repos.Events.ListOverlapping(ctx, normalized.Start, normalized.End)
		if err != nil {
			return err
		}
		if conflict := findConflict(normalized, existing, uuid.Nil); conflict != nil {
			return conflict
		}

		event := normalized
		event.ID = uuid.New()
		event.Status = domain.StatusPending
		if err := repos.Events.Insert(ctx, event); err != nil {
			return err
		}

		created, err = repos.Events.GetByID(ctx, event.ID)
		return err
	})
	if err != nil {
		return domain.Event{}, err
	}

	s.logger.Info("event created",
		zap.String("event_id", created.ID.String()),
		zap.String("kind", string(created.Kind)),
		zap.Time("start", created.Start),
	)
	return created, nil
}

// MoveEvent reschedules an existing event to a new time interval. All other
// fields, including status, stay as they are.
func (s *ScheduleService) MoveEvent(ctx context.Context, id uuid.UUID, newStart time.Time, newEnd time.Time) (domain.Event, error) {
	if !newStart.Before(newEnd) {
		return domain.Event{}, &ValidationError{
			Code:    ValidationInvalidTimeOrder,
			Message: "end time must be after start time",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var moved domain.Event
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		event, err := repos.Events.GetByID(ctx, id)
		if err != nil {
			return mapNoRows(err)
		}

		candidate := event
		candidate.Start = newStart
		candidate.End = newEnd

		existing, err := repos.Events.ListOverlapping(ctx, newStart, newEnd)
		if err != nil {
			return err
		}
		if conflict := findConflict(candidate, existing, id); conflict != nil {
			return conflict
		}

		if err := repos.Events.Update(ctx, candidate); err != nil {
			return mapNoRows(err)
		}

		moved, err = repos.Events.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Event{}, err
	}

	s.logger.Info("event moved",
		zap.String("event_id", id.String()),
		zap.Time("start", moved.Start),
		zap.Time("end", moved.End),
	)
	return moved, nil
}

// UpdateEvent is the edit-in-place path: the candidate replaces the stored
// event's fields wholesale, subject to the same validation and conflict rules
// as creation. Status stays as it is.
func (s *ScheduleService) UpdateEvent(ctx context.Context, id uuid.UUID, candidate EventCandidate) (domain.Event, error) {
	normalized, err := validateCandidate(candidate)
	if err != nil {
		return domain.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated domain.Event
	err = s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if _, err := repos.Events.GetByID(ctx, id); err != nil {
			return mapNoRows(err)
		}

		normalized.ID = id
		existing, err := repos.Events.ListOverlapping(ctx, normalized.Start, normalized.End)
		if err != nil {
			return err
		}
		if conflict := findConflict(normalized, existing, id); conflict != nil {
			return conflict
		}

		if err := repos.Events.Update(ctx, normalized); err != nil {
			return mapNoRows(err)
		}

		updated, err = repos.Events.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Event{}, err
	}

	return updated, nil
}

// SetEventStatus applies an approval decision. Only pending events can be
// decided, and the only reachable states are approved and rejected.
func (s *ScheduleService) SetEventStatus(ctx context.Context, id uuid.UUID, next domain.ApprovalStatus, decidedBy uuid.UUID) (domain.Event, error) {
	if next != domain.StatusApproved && next != domain.StatusRejected {
		return domain.Event{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var decided domain.Event
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		event, err := repos.Events.GetByID(ctx, id)
		if err != nil {
			return mapNoRows(err)
		}
		if !event.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if err := repos.Events.UpdateStatus(ctx, id, next); err != nil {
			return mapNoRows(err)
		}

		decided, err = repos.Events.GetByID(ctx, id)
		if err != nil {
			return err
		}

		payload := domain.EventDecidedPayload{
			EventID:   id.String(),
			Decision:  string(next),
			DecidedBy: decidedBy.String(),
			Event:     eventToSlotPayload(decided),
		}
		return repos.Outbox.Insert(ctx, domain.ScheduleEvent{
			EventType: "EventDecided",
			Payload:   payload,
		})
	})
	if err != nil {
		return domain.Event{}, err
	}

	s.logger.Info("event decided",
		zap.String("event_id", id.String()),
		zap.String("decision", string(next)),
		zap.String("decided_by", decidedBy.String()),
	)
	return decided, nil
}

// DeleteEvent removes an event from the store.
func (s *ScheduleService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if err := repos.Events.Delete(ctx, id); err != nil {
			return mapNoRows(err)
		}
		return nil
	})
}

func (s *ScheduleService) GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	var event domain.Event
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		event, err = repos.Events.GetByID(ctx, id)
		return mapNoRows(err)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// ListEventsBetween returns all events overlapping the half-open interval
// [from, to), ordered by start time.
func (s *ScheduleService) ListEventsBetween(ctx context.Context, from time.Time, to time.Time) ([]domain.Event, error) {
	var events []domain.Event
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		events, err = repos.Events.ListOverlapping(ctx, from, to)
		return err
	})
	return events, err
}

// ListPendingEvents returns the approval queue.
func (s *ScheduleService) ListPendingEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		events, err = repos.Events.ListByStatus(ctx, domain.StatusPending)
		return err
	})
	return events, err
}

// ListEventHistory returns decided events, most recently decided first.
func (s *ScheduleService) ListEventHistory(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		events, err = repos.Events.ListDecided(ctx)
		return err
	})
	return events, err
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func eventToSlotPayload(event domain.Event) domain.EventSlotPayload {
	return domain.EventSlotPayload{
		Title:   event.Title,
		Kind:    string(event.Kind),
		Start:   event.Start.Format(time.RFC3339),
		End:     event.End.Format(time.RFC3339),
		Faculty: event.Faculty,
		Room:    event.Room,
		Status:  string(event.Status),
	}
}
