package commands

import (
	"context"
	"encoding/json"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/webhook"
	"stayhub/internal/infra/db"

	"github.com/google/uuid"
)

// UnitSnapshot is the read-side projection of a catalog unit that the
// booking writer needs: existence, pricing inputs and currency.
type UnitSnapshot struct {
	ID               uuid.UUID
	Brand            string
	Name             string
	NightlyRateCents *int64
	MonthlyRateCents *int64
	Currency         string
	Address          string
}

// IdempotencyRecord mirrors one row of the idempotency_keys table. A key once
// bound to a request hash stays bound for its lifetime.
type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	Status          string
	ResponseBody    []byte
	ResponseStatus  int
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	// HasOverlap reports whether a non-cancelled booking on the unit
	// overlaps the half-open stay range.
	HasOverlap(ctx context.Context, tx db.DBTX, unitID uuid.UUID, stay booking.StayRange) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByChannelRef(ctx context.Context, channelRef string) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	UpdateChannelRef(ctx context.Context, tx db.DBTX, b *booking.Booking) error
}

type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UnitSnapshot, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key with conflict-ignored semantics: a concurrent
	// claim of the same key is not an error. It reports whether this call
	// won the claim; losers consult Get to arbitrate replay vs reuse.
	TryInsert(ctx context.Context, key, requestHash string, expiresAt time.Time) (claimed bool, err error)
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, tx db.DBTX, key string, responseBody []byte, responseStatus int, resultBookingID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type WebhookEventRepository interface {
	Insert(ctx context.Context, e *webhook.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*webhook.Event, error)
	Update(ctx context.Context, e *webhook.Event) error
	// FindDueRetries returns ids of FAILED events whose retry time has
	// passed, oldest first.
	FindDueRetries(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	// FindPending returns ids of PENDING events created before the cutoff,
	// oldest first. Startup recovery passes now; the poller passes a
	// slightly older cutoff so freshly-ingested events are not double-fed.
	FindPending(ctx context.Context, before time.Time, limit int) ([]uuid.UUID, error)
}

type NotificationRepository interface {
	// CreateJob enqueues a follow-up job. The id is caller-supplied so
	// handlers can derive deterministic ids and stay idempotent across
	// reprocessing.
	CreateJob(ctx context.Context, tx db.DBTX, id uuid.UUID, kind, topic string, payload []byte, runAt time.Time) error
}

// ChannelClient pushes locally-created bookings to the external channel
// manager. Calls must carry bounded timeouts.
type ChannelClient interface {
	PushBooking(ctx context.Context, b *booking.Booking) (channelRef string, err error)
}

// EventPublisher fans derived events out to downstream consumers (cleaning,
// housekeeping, analytics). Best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// AddressInvalidator is the geocode cache hook used when a property's
// address changes upstream.
type AddressInvalidator interface {
	Invalidate(ctx context.Context, address string)
}

// RawEvent is what the ingestion endpoint hands over: an unparsed type tag
// plus opaque payload.
type RawEvent struct {
	Type    string
	Payload json.RawMessage
}
