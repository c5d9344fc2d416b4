package domain

import (
	"time"

	"github.com/google/uuid"
)

// DigestSettings configures the daily schedule digest for one department.
// LastSentDate guards against emitting more than one digest per day.
type DigestSettings struct {
	DepartmentID uuid.UUID
	Channel      string
	DigestTime   time.Time
	Template     string
	LastSentDate *time.Time
}
