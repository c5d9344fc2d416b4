package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes regular classes from ad-hoc departmental events.
type EventKind string

const (
	KindClass EventKind = "class"
	KindEvent EventKind = "event"
)

func (k EventKind) Valid() bool {
	return k == KindClass || k == KindEvent
}

// Event is a scheduled occupation of a time interval, optionally bound to a
// room and a faculty member. Faculty and Room are always set for KindClass.
type Event struct {
	ID        uuid.UUID
	Title     string
	Start     time.Time
	End       time.Time
	Kind      EventKind
	Status    ApprovalStatus
	Faculty   string
	Room      string
	Details   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
