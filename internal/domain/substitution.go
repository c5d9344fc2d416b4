package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubstitutionRequest proposes replacing one faculty member with another for
// a single course on a single date. It shares the approval lifecycle with
// Event but lives in its own store and never occupies a room.
type SubstitutionRequest struct {
	ID         uuid.UUID
	Original   string
	Substitute string
	Date       time.Time
	Course     string
	Status     ApprovalStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
