package service

import (
	"context"
	"time"

	"service-schedule/internal/domain"
)

// CalendarWindow selects the span of a calendar projection.
type CalendarWindow string

const (
	WindowDay   CalendarWindow = "day"
	WindowWeek  CalendarWindow = "week"
	WindowMonth CalendarWindow = "month"
)

func (w CalendarWindow) Valid() bool {
	switch w {
	case WindowDay, WindowWeek, WindowMonth:
		return true
	default:
		return false
	}
}

// EventStyle is the rendering hint handed to the calendar UI per event kind.
type EventStyle struct {
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
}

// KindStyles maps each event kind to its calendar style. The UI renders
// whatever it receives here; the mapping is not persisted.
var KindStyles = map[domain.EventKind]EventStyle{
	domain.KindClass: {Color: "#4f46e5", TextColor: "#ffffff"},
	domain.KindEvent: {Color: "#059669", TextColor: "#ffffff"},
}

// CalendarView is the read-only projection the calendar UI consumes.
type CalendarView struct {
	Window CalendarWindow
	From   time.Time
	To     time.Time
	Events []domain.Event
	Styles map[domain.EventKind]EventStyle
}

// CalendarViewAt projects the store onto the window containing ref. The view
// never mutates anything; all mutation routes through the engine operations.
func (s *ScheduleService) CalendarViewAt(ctx context.Context, window CalendarWindow, ref time.Time) (CalendarView, error) {
	if !window.Valid() {
		return CalendarView{}, ErrInvalidInput
	}

	from, to := windowBounds(window, ref)
	events, err := s.ListEventsBetween(ctx, from, to)
	if err != nil {
		return CalendarView{}, err
	}

	return CalendarView{
		Window: window,
		From:   from,
		To:     to,
		Events: events,
		Styles: KindStyles,
	}, nil
}

// TodayEvents returns the events whose span touches the current date.
func (s *ScheduleService) TodayEvents(ctx context.Context) ([]domain.Event, error) {
	from, to := windowBounds(WindowDay, s.clock())
	return s.ListEventsBetween(ctx, from, to)
}

// windowBounds computes the half-open [from, to) interval containing ref.
// Weeks start on Monday; months on the first.
func windowBounds(window CalendarWindow, ref time.Time) (time.Time, time.Time) {
	day := truncateToDateLocal(ref)
	switch window {
	case WindowWeek:
		from := day.AddDate(0, 0, -mondayOffset(day))
		return from, from.AddDate(0, 0, 7)
	case WindowMonth:
		from := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return from, from.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

func mondayOffset(day time.Time) int {
	weekday := day.Weekday()
	if weekday == time.Sunday {
		return 6
	}
	return int(weekday) - 1
}

func truncateToDateLocal(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
