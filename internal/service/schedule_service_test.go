package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"service-schedule/internal/domain"
	"service-schedule/internal/repository"
)

type ScheduleServiceTestSuite struct {
	suite.Suite
	store   *repository.MemoryTxManager
	service *ScheduleService
	ctx     context.Context
	base    time.Time
}

func (s *ScheduleServiceTestSuite) SetupTest() {
	s.store = repository.NewMemoryTxManager()
	s.service = NewScheduleService(s.store, zap.NewNop())
	s.ctx = context.Background()
	s.base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
}

func (s *ScheduleServiceTestSuite) candidate(start time.Time, duration time.Duration, faculty string, room string) EventCandidate {
	end := start.Add(duration)
	return EventCandidate{
		Title:   "Lecture",
		Start:   &start,
		End:     &end,
		Kind:    domain.KindClass,
		Faculty: faculty,
		Room:    room,
	}
}

func (s *ScheduleServiceTestSuite) mustCreate(start time.Time, duration time.Duration, faculty string, room string) domain.Event {
	event, err := s.service.CreateEvent(s.ctx, s.candidate(start, duration, faculty, room))
	s.Require().NoError(err)
	return event
}

func (s *ScheduleServiceTestSuite) TestCreateEventAssignsIDAndPendingStatus() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	s.Assert().NotEqual(uuid.Nil, event.ID)
	s.Assert().Equal(domain.StatusPending, event.Status)

	fetched, err := s.service.GetEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Assert().Equal(event.Title, fetched.Title)
	s.Assert().True(event.Start.Equal(fetched.Start))
	s.Assert().True(event.End.Equal(fetched.End))
	s.Assert().Equal(event.Faculty, fetched.Faculty)
	s.Assert().Equal(event.Room, fetched.Room)
	s.Assert().Equal(domain.StatusPending, fetched.Status)
}

func (s *ScheduleServiceTestSuite) TestCreateEventValidationFailureLeavesStoreEmpty() {
	candidate := s.candidate(s.base, time.Hour, "", "101")
	_, err := s.service.CreateEvent(s.ctx, candidate)

	s.Assert().ErrorIs(err, ErrInvalidInput)
	s.Assert().Empty(s.store.Events())
}

func (s *ScheduleServiceTestSuite) TestCreateEventConflictingRoomRejected() {
	s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	_, err := s.service.CreateEvent(s.ctx, s.candidate(s.base.Add(30*time.Minute), time.Hour, "Dr. Lee", "101"))
	s.Require().ErrorIs(err, ErrConflict)
	s.Assert().EqualError(err, "Faculty or room double booking detected")
	s.Assert().Len(s.store.Events(), 1)
}

func (s *ScheduleServiceTestSuite) TestCreateEventConflictingFacultyRejected() {
	s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	_, err := s.service.CreateEvent(s.ctx, s.candidate(s.base.Add(30*time.Minute), time.Hour, "Dr. Smith", "202"))
	s.Assert().ErrorIs(err, ErrConflict)
	s.Assert().Len(s.store.Events(), 1)
}

func (s *ScheduleServiceTestSuite) TestCreateEventNonConflictingSucceeds() {
	s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	created, err := s.service.CreateEvent(s.ctx, s.candidate(s.base.Add(30*time.Minute), time.Hour, "Dr. Lee", "102"))
	s.Require().NoError(err)
	s.Assert().Equal(domain.StatusPending, created.Status)
	s.Assert().Len(s.store.Events(), 2)
}

func (s *ScheduleServiceTestSuite) TestCreateEventAdjacentSucceeds() {
	s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	_, err := s.service.CreateEvent(s.ctx, s.candidate(s.base.Add(time.Hour), time.Hour, "Dr. Smith", "101"))
	s.Assert().NoError(err)
}

func (s *ScheduleServiceTestSuite) TestMoveEventSucceeds() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	moved, err := s.service.MoveEvent(s.ctx, event.ID, s.base.Add(3*time.Hour), s.base.Add(4*time.Hour))
	s.Require().NoError(err)
	s.Assert().True(moved.Start.Equal(s.base.Add(3 * time.Hour)))
	s.Assert().Equal(domain.StatusPending, moved.Status)
}

func (s *ScheduleServiceTestSuite) TestMoveEventIntoConflictRejected() {
	s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	target := s.mustCreate(s.base.Add(4*time.Hour), time.Hour, "Dr. Smith", "103")

	_, err := s.service.MoveEvent(s.ctx, target.ID, s.base.Add(15*time.Minute), s.base.Add(75*time.Minute))
	s.Require().ErrorIs(err, ErrConflict)

	stored, err := s.service.GetEvent(s.ctx, target.ID)
	s.Require().NoError(err)
	s.Assert().True(stored.Start.Equal(target.Start), "original time must be unchanged")
}

func (s *ScheduleServiceTestSuite) TestMoveEventDoesNotConflictWithItself() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	_, err := s.service.MoveEvent(s.ctx, event.ID, s.base.Add(15*time.Minute), s.base.Add(75*time.Minute))
	s.Assert().NoError(err)
}

func (s *ScheduleServiceTestSuite) TestMoveEventRejectsBadTimeOrder() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	_, err := s.service.MoveEvent(s.ctx, event.ID, s.base.Add(2*time.Hour), s.base.Add(2*time.Hour))
	s.Assert().ErrorIs(err, ErrInvalidInput)
}

func (s *ScheduleServiceTestSuite) TestMoveEventNotFound() {
	_, err := s.service.MoveEvent(s.ctx, uuid.New(), s.base, s.base.Add(time.Hour))
	s.Assert().ErrorIs(err, ErrNotFound)
}

func (s *ScheduleServiceTestSuite) TestUpdateEventChangesRoomIntoConflict() {
	s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	target := s.mustCreate(s.base.Add(4*time.Hour), time.Hour, "Dr. Lee", "103")

	candidate := s.candidate(s.base.Add(15*time.Minute), time.Hour, "Dr. Lee", "101")
	_, err := s.service.UpdateEvent(s.ctx, target.ID, candidate)
	s.Require().ErrorIs(err, ErrConflict)

	stored, err := s.service.GetEvent(s.ctx, target.ID)
	s.Require().NoError(err)
	s.Assert().True(stored.Start.Equal(target.Start))
	s.Assert().Equal("103", stored.Room)
}

func (s *ScheduleServiceTestSuite) TestUpdateEventKeepsStatus() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	_, err := s.service.SetEventStatus(s.ctx, event.ID, domain.StatusApproved, uuid.New())
	s.Require().NoError(err)

	updated, err := s.service.UpdateEvent(s.ctx, event.ID, s.candidate(s.base.Add(2*time.Hour), time.Hour, "Dr. Smith", "102"))
	s.Require().NoError(err)
	s.Assert().Equal(domain.StatusApproved, updated.Status)
	s.Assert().Equal("102", updated.Room)
}

func (s *ScheduleServiceTestSuite) TestSetEventStatusApprove() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	decided, err := s.service.SetEventStatus(s.ctx, event.ID, domain.StatusApproved, uuid.New())
	s.Require().NoError(err)
	s.Assert().Equal(domain.StatusApproved, decided.Status)
}

func (s *ScheduleServiceTestSuite) TestSetEventStatusTerminalIsFrozen() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	_, err := s.service.SetEventStatus(s.ctx, event.ID, domain.StatusApproved, uuid.New())
	s.Require().NoError(err)

	_, err = s.service.SetEventStatus(s.ctx, event.ID, domain.StatusRejected, uuid.New())
	s.Assert().ErrorIs(err, ErrInvalidTransition)

	stored, err := s.service.GetEvent(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Assert().Equal(domain.StatusApproved, stored.Status)
}

func (s *ScheduleServiceTestSuite) TestSetEventStatusRejectsPendingTarget() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	_, err := s.service.SetEventStatus(s.ctx, event.ID, domain.StatusPending, uuid.New())
	s.Assert().ErrorIs(err, ErrInvalidInput)
}

func (s *ScheduleServiceTestSuite) TestSetEventStatusEmitsOutboxEvent() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	decider := uuid.New()

	_, err := s.service.SetEventStatus(s.ctx, event.ID, domain.StatusRejected, decider)
	s.Require().NoError(err)

	outbox := s.store.Outbox()
	s.Require().Len(outbox, 1)
	s.Assert().Equal("EventDecided", outbox[0].EventType)
	payload, ok := outbox[0].Payload.(domain.EventDecidedPayload)
	s.Require().True(ok)
	s.Assert().Equal(event.ID.String(), payload.EventID)
	s.Assert().Equal("rejected", payload.Decision)
	s.Assert().Equal(decider.String(), payload.DecidedBy)
}

func (s *ScheduleServiceTestSuite) TestSetEventStatusNotFound() {
	_, err := s.service.SetEventStatus(s.ctx, uuid.New(), domain.StatusApproved, uuid.New())
	s.Assert().ErrorIs(err, ErrNotFound)
}

func (s *ScheduleServiceTestSuite) TestDeleteEvent() {
	event := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")

	s.Require().NoError(s.service.DeleteEvent(s.ctx, event.ID))
	_, err := s.service.GetEvent(s.ctx, event.ID)
	s.Assert().ErrorIs(err, ErrNotFound)

	s.Assert().ErrorIs(s.service.DeleteEvent(s.ctx, event.ID), ErrNotFound)
}

func (s *ScheduleServiceTestSuite) TestFailedOperationsLeaveStoreIdentical() {
	s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	second := s.mustCreate(s.base.Add(2*time.Hour), time.Hour, "Dr. Lee", "102")
	before := s.store.Events()

	_, err := s.service.CreateEvent(s.ctx, s.candidate(s.base.Add(30*time.Minute), time.Hour, "Dr. Smith", "105"))
	s.Require().ErrorIs(err, ErrConflict)
	_, err = s.service.MoveEvent(s.ctx, second.ID, s.base.Add(20*time.Minute), s.base.Add(80*time.Minute))
	s.Require().Error(err)
	_, err = s.service.SetEventStatus(s.ctx, uuid.New(), domain.StatusApproved, uuid.New())
	s.Require().ErrorIs(err, ErrNotFound)

	s.Assert().Equal(before, s.store.Events())
}

func (s *ScheduleServiceTestSuite) TestListPendingAndHistory() {
	pendingEvent := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	decidedEvent := s.mustCreate(s.base.Add(2*time.Hour), time.Hour, "Dr. Lee", "102")
	_, err := s.service.SetEventStatus(s.ctx, decidedEvent.ID, domain.StatusApproved, uuid.New())
	s.Require().NoError(err)

	pending, err := s.service.ListPendingEvents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Assert().Equal(pendingEvent.ID, pending[0].ID)

	history, err := s.service.ListEventHistory(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Assert().Equal(decidedEvent.ID, history[0].ID)
}

func (s *ScheduleServiceTestSuite) TestListEventsBetween() {
	inside := s.mustCreate(s.base, time.Hour, "Dr. Smith", "101")
	outside := s.mustCreate(s.base.AddDate(0, 0, 2), time.Hour, "Dr. Lee", "102")
	_ = outside

	from := s.base.Add(-time.Hour)
	to := s.base.Add(2 * time.Hour)
	events, err := s.service.ListEventsBetween(s.ctx, from, to)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Assert().Equal(inside.ID, events[0].ID)
}

func TestScheduleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ScheduleServiceTestSuite))
}
