package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-schedule/internal/domain"
	"service-schedule/internal/repository"
)

// Fixed catalogs for demo data. Rooms and faculty are cycled per day so the
// seeded week never violates the double-booking invariant.
var (
	seedFaculty = []string{"Dr. Smith", "Dr. Lee", "Dr. Patel", "Dr. Garcia", "Dr. Chen", "Dr. Okafor"}
	seedRooms   = []string{"101", "102", "103", "201", "202", "Lab-1"}
	seedCourses = []string{"Data Structures", "Operating Systems", "Databases", "Networks", "Compilers", "Linear Algebra"}
)

// SeedDemoWeek fills Monday through Friday of the current week with two to
// four randomized class events per day. Today's events are left pending,
// other days' are approved. This exists for demos and tests only and must
// never run against a real store; it is reachable solely through the
// DEMO_SEED startup flag.
func (s *ScheduleService) SeedDemoWeek(ctx context.Context) error {
	now := s.clock()
	today := truncateToDateLocal(now)
	weekStart, _ := windowBounds(WindowWeek, now)
	rng := rand.New(rand.NewSource(now.UnixNano()))

	s.mu.Lock()
	defer s.mu.Unlock()

	var seeded int
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		for dayIndex := 0; dayIndex < 5; dayIndex++ {
			day := weekStart.AddDate(0, 0, dayIndex)
			count := 2 + rng.Intn(3)
			offset := rng.Intn(len(seedFaculty))

			for slot := 0; slot < count; slot++ {
				start := day.Add(time.Duration(9+2*slot) * time.Hour)
				pick := (offset + slot) % len(seedFaculty)

				status := domain.StatusApproved
				if day.Equal(today) {
					status = domain.StatusPending
				}

				event := domain.Event{
					ID:      uuid.New(),
					Title:   fmt.Sprintf("%s Lecture", seedCourses[(offset+slot)%len(seedCourses)]),
					Start:   start,
					End:     start.Add(time.Hour),
					Kind:    domain.KindClass,
					Status:  status,
					Faculty: seedFaculty[pick],
					Room:    seedRooms[pick%len(seedRooms)],
				}
				if err := repos.Events.Insert(ctx, event); err != nil {
					return err
				}
				seeded++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("demo week seeded",
		zap.Int("events", seeded),
		zap.Time("week_start", weekStart),
	)
	return nil
}
