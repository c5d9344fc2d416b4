package service

import (
	"time"

	"github.com/google/uuid"

	"service-schedule/internal/domain"
)

const conflictMessage = "Faculty or room double booking detected"

// findConflict returns the first class booking in existing that the candidate
// collides with, or nil. The time test flags a collision when the candidate's
// start falls inside an existing booking's span, so an event starting exactly
// where another ends is allowed. excludeID skips the candidate's own stored
// row during moves and edits.
func findConflict(candidate domain.Event, existing []domain.Event, excludeID uuid.UUID) *ConflictError {
	for _, event := range existing {
		if event.ID == excludeID {
			continue
		}
		if event.Kind != domain.KindClass {
			continue
		}
		if !startsWithin(candidate.Start, event) {
			continue
		}
		if candidate.Room != "" && candidate.Room == event.Room {
			return &ConflictError{Message: conflictMessage, With: event.ID, Dimension: "room"}
		}
		if candidate.Faculty != "" && candidate.Faculty == event.Faculty {
			return &ConflictError{Message: conflictMessage, With: event.ID, Dimension: "faculty"}
		}
	}
	return nil
}

func startsWithin(start time.Time, event domain.Event) bool {
	return start.Before(event.End) && !start.Before(event.Start)
}
