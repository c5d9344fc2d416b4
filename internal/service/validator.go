package service

import (
	"strings"
	"time"

	"service-schedule/internal/domain"
)

// EventCandidate carries the caller-supplied fields of a proposed event.
// Times are pointers so that "absent" and "zero" stay distinguishable.
type EventCandidate struct {
	Title   string
	Start   *time.Time
	End     *time.Time
	Kind    domain.EventKind
	Faculty string
	Room    string
	Details string
}

// validateCandidate enforces the structural rules an event must satisfy
// before it may enter the store and returns the normalized event fields.
// It is pure; the returned event has no ID and no status yet.
func validateCandidate(candidate EventCandidate) (domain.Event, error) {
	title := strings.TrimSpace(candidate.Title)
	if title == "" {
		return domain.Event{}, &ValidationError{
			Code:    ValidationMissingTitle,
			Message: "title is required",
		}
	}

	if candidate.Start == nil || candidate.End == nil {
		return domain.Event{}, &ValidationError{
			Code:    ValidationMissingTimes,
			Message: "start and end times are required",
		}
	}
	if !candidate.Start.Before(*candidate.End) {
		return domain.Event{}, &ValidationError{
			Code:    ValidationInvalidTimeOrder,
			Message: "end time must be after start time",
		}
	}

	kind := candidate.Kind
	if kind == "" {
		kind = domain.KindEvent
	}
	if !kind.Valid() {
		return domain.Event{}, ErrInvalidInput
	}

	faculty := strings.TrimSpace(candidate.Faculty)
	room := strings.TrimSpace(candidate.Room)
	if kind == domain.KindClass {
		if faculty == "" {
			return domain.Event{}, &ValidationError{
				Code:    ValidationMissingFaculty,
				Message: "faculty is required for classes",
			}
		}
		if room == "" {
			return domain.Event{}, &ValidationError{
				Code:    ValidationMissingRoom,
				Message: "room is required for classes",
			}
		}
	}

	return domain.Event{
		Title:   title,
		Start:   *candidate.Start,
		End:     *candidate.End,
		Kind:    kind,
		Faculty: faculty,
		Room:    room,
		Details: strings.TrimSpace(candidate.Details),
	}, nil
}
