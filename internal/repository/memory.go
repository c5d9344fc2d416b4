package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"service-schedule/internal/domain"
)

// MemoryTxManager is an in-memory stand-in for PostgresTxManager. A failed
// transaction function restores the snapshot taken at entry, so rollback
// semantics match the real thing.
type MemoryTxManager struct {
	mu            sync.Mutex
	events        map[uuid.UUID]domain.Event
	substitutions map[uuid.UUID]domain.SubstitutionRequest
	settings      map[uuid.UUID]domain.DigestSettings
	outbox        []domain.ScheduleEvent
}

func NewMemoryTxManager() *MemoryTxManager {
	return &MemoryTxManager{
		events:        make(map[uuid.UUID]domain.Event),
		substitutions: make(map[uuid.UUID]domain.SubstitutionRequest),
		settings:      make(map[uuid.UUID]domain.DigestSettings),
	}
}

func (m *MemoryTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	eventsSnapshot := make(map[uuid.UUID]domain.Event, len(m.events))
	for id, event := range m.events {
		eventsSnapshot[id] = event
	}
	substitutionsSnapshot := make(map[uuid.UUID]domain.SubstitutionRequest, len(m.substitutions))
	for id, request := range m.substitutions {
		substitutionsSnapshot[id] = request
	}
	settingsSnapshot := make(map[uuid.UUID]domain.DigestSettings, len(m.settings))
	for id, entry := range m.settings {
		settingsSnapshot[id] = entry
	}
	outboxSnapshot := make([]domain.ScheduleEvent, len(m.outbox))
	copy(outboxSnapshot, m.outbox)

	repos := TxRepositories{
		Events:        &memoryEventRepository{m: m},
		Substitutions: &memorySubstitutionRepository{m: m},
		Settings:      &memoryDigestSettingsRepository{m: m},
		Outbox:        &memoryOutboxRepository{m: m},
	}

	if err := fn(ctx, repos); err != nil {
		m.events = eventsSnapshot
		m.substitutions = substitutionsSnapshot
		m.settings = settingsSnapshot
		m.outbox = outboxSnapshot
		return err
	}

	return nil
}

// Events returns a copy of all stored events, ordered by start time.
func (m *MemoryTxManager) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.Event, 0, len(m.events))
	for _, event := range m.events {
		events = append(events, event)
	}
	sortEventsByStart(events)
	return events
}

// Outbox returns a copy of all emitted outbox events, in emission order.
func (m *MemoryTxManager) Outbox() []domain.ScheduleEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	outbox := make([]domain.ScheduleEvent, len(m.outbox))
	copy(outbox, m.outbox)
	return outbox
}

// PutSettings seeds digest settings directly, bypassing transactions.
func (m *MemoryTxManager) PutSettings(entry domain.DigestSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[entry.DepartmentID] = entry
}

type memoryEventRepository struct {
	m *MemoryTxManager
}

func (r *memoryEventRepository) Insert(_ context.Context, event domain.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	r.m.events[event.ID] = event
	return nil
}

func (r *memoryEventRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Event, error) {
	event, ok := r.m.events[id]
	if !ok {
		return domain.Event{}, sql.ErrNoRows
	}
	return event, nil
}

func (r *memoryEventRepository) Update(_ context.Context, event domain.Event) error {
	stored, ok := r.m.events[event.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Title = event.Title
	stored.Start = event.Start
	stored.End = event.End
	stored.Kind = event.Kind
	stored.Faculty = event.Faculty
	stored.Room = event.Room
	stored.Details = event.Details
	stored.UpdatedAt = time.Now()
	r.m.events[event.ID] = stored
	return nil
}

func (r *memoryEventRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ApprovalStatus) error {
	stored, ok := r.m.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	r.m.events[id] = stored
	return nil
}

func (r *memoryEventRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.m.events, id)
	return nil
}

func (r *memoryEventRepository) ListOverlapping(_ context.Context, from time.Time, to time.Time) ([]domain.Event, error) {
	var events []domain.Event
	for _, event := range r.m.events {
		if event.Start.Before(to) && event.End.After(from) {
			events = append(events, event)
		}
	}
	sortEventsByStart(events)
	return events, nil
}

func (r *memoryEventRepository) ListByStatus(_ context.Context, status domain.ApprovalStatus) ([]domain.Event, error) {
	var events []domain.Event
	for _, event := range r.m.events {
		if event.Status == status {
			events = append(events, event)
		}
	}
	sortEventsByStart(events)
	return events, nil
}

func (r *memoryEventRepository) ListDecided(_ context.Context) ([]domain.Event, error) {
	var events []domain.Event
	for _, event := range r.m.events {
		if event.Status != domain.StatusPending {
			events = append(events, event)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].UpdatedAt.After(events[j].UpdatedAt)
	})
	return events, nil
}

type memorySubstitutionRepository struct {
	m *MemoryTxManager
}

func (r *memorySubstitutionRepository) Insert(_ context.Context, request domain.SubstitutionRequest) error {
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.m.substitutions[request.ID] = request
	return nil
}

func (r *memorySubstitutionRepository) GetByID(_ context.Context, id uuid.UUID) (domain.SubstitutionRequest, error) {
	request, ok := r.m.substitutions[id]
	if !ok {
		return domain.SubstitutionRequest{}, sql.ErrNoRows
	}
	return request, nil
}

func (r *memorySubstitutionRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ApprovalStatus) error {
	stored, ok := r.m.substitutions[id]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	r.m.substitutions[id] = stored
	return nil
}

func (r *memorySubstitutionRepository) List(_ context.Context, status *domain.ApprovalStatus) ([]domain.SubstitutionRequest, error) {
	var requests []domain.SubstitutionRequest
	for _, request := range r.m.substitutions {
		if status != nil && request.Status != *status {
			continue
		}
		requests = append(requests, request)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

type memoryDigestSettingsRepository struct {
	m *MemoryTxManager
}

func (r *memoryDigestSettingsRepository) ListAll(_ context.Context) ([]domain.DigestSettings, error) {
	settings := make([]domain.DigestSettings, 0, len(r.m.settings))
	for _, entry := range r.m.settings {
		settings = append(settings, entry)
	}
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].DepartmentID.String() < settings[j].DepartmentID.String()
	})
	return settings, nil
}

func (r *memoryDigestSettingsRepository) MarkSent(_ context.Context, departmentID uuid.UUID, date time.Time) (bool, error) {
	entry, ok := r.m.settings[departmentID]
	if !ok {
		return false, nil
	}
	if entry.LastSentDate != nil && !entry.LastSentDate.Before(date) {
		return false, nil
	}
	sent := date
	entry.LastSentDate = &sent
	r.m.settings[departmentID] = entry
	return true, nil
}

type memoryOutboxRepository struct {
	m *MemoryTxManager
}

func (r *memoryOutboxRepository) Insert(_ context.Context, event domain.ScheduleEvent) error {
	r.m.outbox = append(r.m.outbox, event)
	return nil
}

func sortEventsByStart(events []domain.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID.String() < events[j].ID.String()
		}
		return events[i].Start.Before(events[j].Start)
	})
}
