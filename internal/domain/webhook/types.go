package webhook

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusDeadLetter Status = "DEAD_LETTER"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the event must never be re-enqueued.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDeadLetter
}

// EventType enumerates the known inbound event kinds. Anything the channel
// manager sends that is not listed here parses to TypeUnknown instead of
// failing, so new upstream kinds degrade gracefully.
type EventType string

const (
	TypeBookingCreated   EventType = "booking.created"
	TypeBookingModified  EventType = "booking.modified"
	TypeBookingCancelled EventType = "booking.cancelled"
	TypePropertyUpdated  EventType = "property.updated"
	TypeUnknown          EventType = "unknown"
)

func (t EventType) String() string {
	return string(t)
}

func ParseEventType(raw string) EventType {
	switch EventType(raw) {
	case TypeBookingCreated, TypeBookingModified, TypeBookingCancelled, TypePropertyUpdated:
		return EventType(raw)
	default:
		return TypeUnknown
	}
}
