package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payload is the decoded form of an event body. Dispatch switches over the
// concrete types below, with UnknownPayload as the explicit fallthrough, so
// adding an event kind forces every switch to handle it.
type Payload interface {
	isPayload()
}

type BookingCreatedPayload struct {
	ChannelBookingID string    `json:"channel_booking_id"`
	Brand            string    `json:"brand"`
	UnitID           uuid.UUID `json:"unit_id"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       string    `json:"guest_email"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
}

type BookingModifiedPayload struct {
	ChannelBookingID string    `json:"channel_booking_id"`
	BookingID        uuid.UUID `json:"booking_id"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
}

type BookingCancelledPayload struct {
	ChannelBookingID string    `json:"channel_booking_id"`
	BookingID        uuid.UUID `json:"booking_id"`
	Reason           string    `json:"reason"`
}

type PropertyUpdatedPayload struct {
	UnitID  uuid.UUID `json:"unit_id"`
	Address string    `json:"address"`
}

type UnknownPayload struct {
	Raw json.RawMessage
}

func (BookingCreatedPayload) isPayload()   {}
func (BookingModifiedPayload) isPayload()  {}
func (BookingCancelledPayload) isPayload() {}
func (PropertyUpdatedPayload) isPayload()  {}
func (UnknownPayload) isPayload()          {}

// DecodePayload parses the raw body according to the event type. Unknown
// types never error; their raw body is preserved for operators.
func (e *Event) DecodePayload() (Payload, error) {
	switch e.eventType {
	case TypeBookingCreated:
		var p BookingCreatedPayload
		if err := json.Unmarshal(e.payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", e.eventType, err)
		}
		return p, nil
	case TypeBookingModified:
		var p BookingModifiedPayload
		if err := json.Unmarshal(e.payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", e.eventType, err)
		}
		return p, nil
	case TypeBookingCancelled:
		var p BookingCancelledPayload
		if err := json.Unmarshal(e.payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", e.eventType, err)
		}
		return p, nil
	case TypePropertyUpdated:
		var p PropertyUpdatedPayload
		if err := json.Unmarshal(e.payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", e.eventType, err)
		}
		return p, nil
	case TypeUnknown:
		return UnknownPayload{Raw: e.payload}, nil
	default:
		return UnknownPayload{Raw: e.payload}, nil
	}
}
