package domain

// ScheduleEvent is an outbox record handed to downstream consumers. The
// payload is serialized as-is; delivery is someone else's job.
type ScheduleEvent struct {
	EventType string
	Payload   any
}

type EventSlotPayload struct {
	Title   string
	Kind    string
	Start   string
	End     string
	Faculty string
	Room    string
	Status  string
}

// EventDecidedPayload is emitted whenever a pending event is approved or
// rejected.
type EventDecidedPayload struct {
	EventID   string
	Decision  string
	DecidedBy string
	Event     EventSlotPayload
}

// SubstitutionDecidedPayload is emitted whenever a substitution request is
// approved or rejected.
type SubstitutionDecidedPayload struct {
	RequestID  string
	Decision   string
	DecidedBy  string
	Original   string
	Substitute string
	Course     string
	Date       string
}

// DailyScheduleDigestPayload lists the day's approved events for a
// department's digest channel.
type DailyScheduleDigestPayload struct {
	DepartmentID string
	Date         string
	Channel      string
	Template     string
	Events       []EventSlotPayload
}
