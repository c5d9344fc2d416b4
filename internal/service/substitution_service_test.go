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

type SubstitutionServiceTestSuite struct {
	suite.Suite
	store   *repository.MemoryTxManager
	service *ScheduleService
	ctx     context.Context
}

func (s *SubstitutionServiceTestSuite) SetupTest() {
	s.store = repository.NewMemoryTxManager()
	s.service = NewScheduleService(s.store, zap.NewNop())
	s.ctx = context.Background()
}

func (s *SubstitutionServiceTestSuite) validCandidate() SubstitutionCandidate {
	return SubstitutionCandidate{
		Original:   "Dr. Smith",
		Substitute: "Dr. Lee",
		Course:     "Operating Systems",
		Date:       time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local),
	}
}

func (s *SubstitutionServiceTestSuite) TestCreateStartsPending() {
	created, err := s.service.CreateSubstitutionRequest(s.ctx, s.validCandidate())
	s.Require().NoError(err)
	s.Assert().NotEqual(uuid.Nil, created.ID)
	s.Assert().Equal(domain.StatusPending, created.Status)
	s.Assert().Equal("Dr. Smith", created.Original)
	s.Assert().Equal("Dr. Lee", created.Substitute)
}

func (s *SubstitutionServiceTestSuite) TestCreateRejectsMissingFields() {
	candidate := s.validCandidate()
	candidate.Course = ""
	_, err := s.service.CreateSubstitutionRequest(s.ctx, candidate)
	s.Assert().ErrorIs(err, ErrInvalidInput)

	candidate = s.validCandidate()
	candidate.Date = time.Time{}
	_, err = s.service.CreateSubstitutionRequest(s.ctx, candidate)
	s.Assert().ErrorIs(err, ErrInvalidInput)
}

func (s *SubstitutionServiceTestSuite) TestCreateRejectsSelfSubstitution() {
	candidate := s.validCandidate()
	candidate.Substitute = candidate.Original
	_, err := s.service.CreateSubstitutionRequest(s.ctx, candidate)
	s.Assert().ErrorIs(err, ErrInvalidInput)
}

func (s *SubstitutionServiceTestSuite) TestApproveThenTerminal() {
	created, err := s.service.CreateSubstitutionRequest(s.ctx, s.validCandidate())
	s.Require().NoError(err)

	decided, err := s.service.SetSubstitutionStatus(s.ctx, created.ID, domain.StatusApproved, uuid.New())
	s.Require().NoError(err)
	s.Assert().Equal(domain.StatusApproved, decided.Status)

	_, err = s.service.SetSubstitutionStatus(s.ctx, created.ID, domain.StatusRejected, uuid.New())
	s.Assert().ErrorIs(err, ErrInvalidTransition)
}

func (s *SubstitutionServiceTestSuite) TestDecisionEmitsOutboxEvent() {
	created, err := s.service.CreateSubstitutionRequest(s.ctx, s.validCandidate())
	s.Require().NoError(err)

	_, err = s.service.SetSubstitutionStatus(s.ctx, created.ID, domain.StatusApproved, uuid.New())
	s.Require().NoError(err)

	outbox := s.store.Outbox()
	s.Require().Len(outbox, 1)
	s.Assert().Equal("SubstitutionDecided", outbox[0].EventType)
	payload, ok := outbox[0].Payload.(domain.SubstitutionDecidedPayload)
	s.Require().True(ok)
	s.Assert().Equal("approved", payload.Decision)
	s.Assert().Equal("2026-03-04", payload.Date)
}

func (s *SubstitutionServiceTestSuite) TestDecisionNotFound() {
	_, err := s.service.SetSubstitutionStatus(s.ctx, uuid.New(), domain.StatusApproved, uuid.New())
	s.Assert().ErrorIs(err, ErrNotFound)
}

func (s *SubstitutionServiceTestSuite) TestListFiltersByStatus() {
	first, err := s.service.CreateSubstitutionRequest(s.ctx, s.validCandidate())
	s.Require().NoError(err)
	second, err := s.service.CreateSubstitutionRequest(s.ctx, SubstitutionCandidate{
		Original:   "Dr. Patel",
		Substitute: "Dr. Chen",
		Course:     "Databases",
		Date:       time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local),
	})
	s.Require().NoError(err)

	_, err = s.service.SetSubstitutionStatus(s.ctx, first.ID, domain.StatusApproved, uuid.New())
	s.Require().NoError(err)

	all, err := s.service.ListSubstitutionRequests(s.ctx, nil)
	s.Require().NoError(err)
	s.Assert().Len(all, 2)

	pending := domain.StatusPending
	filtered, err := s.service.ListSubstitutionRequests(s.ctx, &pending)
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Assert().Equal(second.ID, filtered[0].ID)

	bogus := domain.ApprovalStatus("cancelled")
	_, err = s.service.ListSubstitutionRequests(s.ctx, &bogus)
	s.Assert().ErrorIs(err, ErrInvalidInput)
}

func TestSubstitutionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubstitutionServiceTestSuite))
}
