package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/brand"
	"stayhub/internal/domain/webhook"
	"stayhub/internal/infra"
	"stayhub/internal/infra/metrics"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEventNotFound = errs.New("webhook event not found")

	// errRemoteBookingNotMirrored marks out-of-order arrival: a modify or
	// cancel landed before the created event it refers to. Retryable.
	errRemoteBookingNotMirrored = errs.New("remote booking not mirrored yet")
)

// jobNamespace seeds deterministic follow-up job ids so reprocessing the
// same event after a mid-flight crash enqueues each job at most once.
var jobNamespace = uuid.MustParse("9a1c8f0e-34d2-4a6b-9f2e-6c0d5b7a1e42")

type WebhookCommands interface {
	// Ingest records the raw event as PENDING and returns it. Parsing and
	// side effects are deferred to ProcessOne so ingestion stays cheap and
	// never rejects a well-formed envelope.
	Ingest(ctx context.Context, raw RawEvent) (*webhook.Event, error)
	// ProcessOne drives a single event through the state machine. Handler
	// failures are absorbed into the event's persisted retry state; only
	// infrastructure failures (load or save) are returned.
	ProcessOne(ctx context.Context, eventID uuid.UUID) error
}

type webhookCommandsImpl struct {
	registry    *brand.Registry
	eventRepo   WebhookEventRepository
	bookingRepo BookingRepository
	unitRepo    UnitRepository
	jobRepo     NotificationRepository
	publisher   EventPublisher
	invalidator AddressInvalidator
	services    *booking.Services
	db          *pgxpool.Pool
	cfg         config.WebhookConfig
	clock       clock.Clock
}

func NewWebhookCommands(
	registry *brand.Registry,
	eventRepo WebhookEventRepository,
	bookingRepo BookingRepository,
	unitRepo UnitRepository,
	jobRepo NotificationRepository,
	publisher EventPublisher,
	invalidator AddressInvalidator,
	services *booking.Services,
	pool *pgxpool.Pool,
	cfg config.WebhookConfig,
	clk clock.Clock,
) WebhookCommands {
	return &webhookCommandsImpl{
		registry:    registry,
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		unitRepo:    unitRepo,
		jobRepo:     jobRepo,
		publisher:   publisher,
		invalidator: invalidator,
		services:    services,
		db:          pool,
		cfg:         cfg,
		clock:       clk,
	}
}

func (c *webhookCommandsImpl) Ingest(ctx context.Context, raw RawEvent) (*webhook.Event, error) {
	eventType := webhook.ParseEventType(raw.Type)
	event := webhook.NewEvent(eventType, raw.Payload, c.cfg.MaxRetries, c.clock.Now())
	if err := c.eventRepo.Insert(ctx, event); err != nil {
		return nil, errs.Wrap(err, "failed to persist webhook event")
	}
	if eventType == webhook.TypeUnknown {
		slog.Warn("accepted webhook event of unknown type", "event_id", event.ID(), "type", raw.Type)
	}
	return event, nil
}

func (c *webhookCommandsImpl) ProcessOne(ctx context.Context, eventID uuid.UUID) error {
	event, err := c.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrEventNotFound
		}
		return errs.Wrap(err, "failed to load webhook event")
	}

	// Terminal events are never reprocessed. Pollers and queues may hand
	// over stale ids; skipping here keeps them harmless.
	if event.Status().IsTerminal() {
		slog.Debug("skipping terminal webhook event", "event_id", event.ID(), "status", event.Status().String())
		return nil
	}

	if err := event.MarkProcessing(c.clock.Now()); err != nil {
		slog.Warn("webhook event not claimable", "event_id", event.ID(), "status", event.Status().String(), "error", err)
		return nil
	}
	if err := c.eventRepo.Update(ctx, event); err != nil {
		return errs.Wrap(err, "failed to claim webhook event")
	}

	if handleErr := c.dispatch(ctx, event); handleErr != nil {
		return c.recordFailure(ctx, event, handleErr)
	}

	if err := event.MarkCompleted(c.clock.Now()); err != nil {
		return errs.Wrap(err, "failed to complete webhook event")
	}
	if err := c.eventRepo.Update(ctx, event); err != nil {
		return errs.Wrap(err, "failed to persist webhook event completion")
	}
	metrics.WebhookEventsProcessed.WithLabelValues(event.Type().String(), "completed").Inc()
	return nil
}

func (c *webhookCommandsImpl) recordFailure(ctx context.Context, event *webhook.Event, cause error) error {
	if err := event.RecordFailure(cause.Error(), c.cfg.BaseBackoff, c.clock.Now()); err != nil {
		return errs.Wrap(err, "failed to record webhook failure")
	}
	if err := c.eventRepo.Update(ctx, event); err != nil {
		return errs.Wrap(err, "failed to persist webhook failure")
	}
	if event.IsDeadLetter() {
		metrics.WebhookEventsProcessed.WithLabelValues(event.Type().String(), "dead_letter").Inc()
		slog.Error("webhook event dead-lettered",
			"event_id", event.ID(),
			"type", event.Type().String(),
			"attempts", event.Attempts(),
			"last_error", cause.Error())
	} else {
		metrics.WebhookEventsProcessed.WithLabelValues(event.Type().String(), "failed").Inc()
		slog.Warn("webhook event failed, retry scheduled",
			"event_id", event.ID(),
			"type", event.Type().String(),
			"attempts", event.Attempts(),
			"next_retry_at", event.NextRetryAt())
	}
	return nil
}

func (c *webhookCommandsImpl) dispatch(ctx context.Context, event *webhook.Event) error {
	payload, err := event.DecodePayload()
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case webhook.BookingCreatedPayload:
		return c.handleBookingCreated(ctx, event, p)
	case webhook.BookingModifiedPayload:
		return c.handleBookingModified(ctx, event, p)
	case webhook.BookingCancelledPayload:
		return c.handleBookingCancelled(ctx, event, p)
	case webhook.PropertyUpdatedPayload:
		return c.handlePropertyUpdated(ctx, p)
	case webhook.UnknownPayload:
		slog.Warn("completing webhook event of unknown type without side effects", "event_id", event.ID())
		return nil
	default:
		return fmt.Errorf("unhandled payload type %T", payload)
	}
}

// handleBookingCreated mirrors a booking written by the external channel
// manager into local storage. The channel is the authoritative writer here;
// this path is how standalone-brand bookings become visible to availability.
func (c *webhookCommandsImpl) handleBookingCreated(ctx context.Context, event *webhook.Event, p webhook.BookingCreatedPayload) error {
	if p.ChannelBookingID == "" {
		return errors.New("booking.created payload missing channel_booking_id")
	}

	existing, err := c.bookingRepo.FindByChannelRef(ctx, p.ChannelBookingID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return errs.Wrap(err, "failed to look up mirrored booking")
	}
	if existing != nil {
		slog.Info("remote booking already mirrored", "channel_booking_id", p.ChannelBookingID, "booking_id", existing.ID())
		return c.enqueueFollowUps(ctx, event, existing, p)
	}

	def, err := c.registry.Lookup(brand.Brand(p.Brand))
	if err != nil {
		return errs.Wrap(err, "booking.created for unknown brand")
	}

	unit, err := c.unitRepo.FindByID(ctx, p.UnitID)
	if err != nil {
		return errs.Wrap(err, "booking.created for unknown unit")
	}

	stay, err := booking.NewStayRange(p.CheckIn, p.CheckOut)
	if err != nil {
		return errs.Wrap(err, "booking.created with invalid stay")
	}
	guest, err := booking.NewGuest(p.GuestName, p.GuestEmail, "")
	if err != nil {
		return errs.Wrap(err, "booking.created with invalid guest")
	}

	entity, err := booking.NewBooking(
		c.services,
		def,
		booking.UnitSpec{
			ID:               unit.ID,
			Brand:            def.Name,
			NightlyRateCents: unit.NightlyRateCents,
			MonthlyRateCents: unit.MonthlyRateCents,
			Currency:         unit.Currency,
		},
		guest,
		stay,
		booking.PaymentMethodCard,
		mirrorIdempotencyKey(p.ChannelBookingID),
		"",
	)
	if err != nil {
		return errs.Wrap(err, "failed to build mirrored booking")
	}
	// Remote bookings arrive already confirmed by the channel.
	if err := entity.Confirm(c.clock.Now()); err != nil {
		return err
	}
	if err := entity.AttachChannelRef(p.ChannelBookingID, c.clock.Now()); err != nil {
		return err
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := c.bookingRepo.Create(ctx, tx, entity); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// The remote stay collides with a local one. Nothing a retry
			// can fix; park it for operators via the retry budget.
			return errs.Wrap(err, "mirrored booking overlaps a local one")
		}
		return errs.Wrap(err, "failed to insert mirrored booking")
	}
	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(err, "failed to commit mirrored booking")
	}

	metrics.BookingsCreated.WithLabelValues(def.Name.String(), "channel").Inc()
	return c.enqueueFollowUps(ctx, event, entity, p)
}

func (c *webhookCommandsImpl) enqueueFollowUps(ctx context.Context, event *webhook.Event, entity *booking.Booking, p webhook.BookingCreatedPayload) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":         entity.ID(),
		"channel_booking_id": p.ChannelBookingID,
		"unit_id":            entity.UnitID(),
		"check_out":          entity.Stay().CheckOut(),
	})
	if err != nil {
		return err
	}

	jobID := deterministicJobID(event.Type().String(), p.ChannelBookingID, "cleaning")
	if err := c.jobRepo.CreateJob(ctx, c.db, jobID, "cleaning", "turnover_schedule", payload, entity.Stay().CheckOut()); err != nil {
		return errs.Wrap(err, "failed to enqueue cleaning job")
	}

	c.publish(ctx, "booking.remote.created", map[string]any{
		"booking_id":         entity.ID(),
		"brand":              entity.Brand().String(),
		"channel_booking_id": p.ChannelBookingID,
	})
	return nil
}

// handleBookingModified does not rewrite stay dates automatically; a date
// move can collide with local bookings and needs a person to resolve. It
// records an ops review job instead.
func (c *webhookCommandsImpl) handleBookingModified(ctx context.Context, event *webhook.Event, p webhook.BookingModifiedPayload) error {
	entity, err := c.findMirrored(ctx, p.ChannelBookingID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"booking_id":         entity.ID(),
		"channel_booking_id": p.ChannelBookingID,
		"new_check_in":       p.CheckIn,
		"new_check_out":      p.CheckOut,
	})
	if err != nil {
		return err
	}

	jobID := deterministicJobID(event.Type().String(), p.ChannelBookingID, event.ID().String())
	if err := c.jobRepo.CreateJob(ctx, c.db, jobID, "ops_review", "booking_modified", payload, c.clock.Now()); err != nil {
		return errs.Wrap(err, "failed to enqueue ops review job")
	}

	c.publish(ctx, "booking.remote.modified", map[string]any{
		"booking_id":         entity.ID(),
		"channel_booking_id": p.ChannelBookingID,
	})
	return nil
}

func (c *webhookCommandsImpl) handleBookingCancelled(ctx context.Context, _ *webhook.Event, p webhook.BookingCancelledPayload) error {
	entity, err := c.findMirrored(ctx, p.ChannelBookingID)
	if err != nil {
		return err
	}

	if entity.Status() == booking.StatusCancelled {
		// Reprocessing after a crash between cancel and complete.
		return nil
	}
	if err := entity.Cancel(c.clock.Now()); err != nil {
		return errs.Wrap(err, "remote cancellation rejected by booking state")
	}
	if err := c.bookingRepo.UpdateStatus(ctx, c.db, entity); err != nil {
		return errs.Wrap(err, "failed to persist remote cancellation")
	}

	c.publish(ctx, "booking.remote.cancelled", map[string]any{
		"booking_id":         entity.ID(),
		"channel_booking_id": p.ChannelBookingID,
		"reason":             p.Reason,
	})
	return nil
}

func (c *webhookCommandsImpl) handlePropertyUpdated(ctx context.Context, p webhook.PropertyUpdatedPayload) error {
	if p.Address != "" && c.invalidator != nil {
		c.invalidator.Invalidate(ctx, p.Address)
	}
	c.publish(ctx, "property.updated", map[string]any{
		"unit_id": p.UnitID,
		"address": p.Address,
	})
	return nil
}

func (c *webhookCommandsImpl) findMirrored(ctx context.Context, channelBookingID string) (*booking.Booking, error) {
	if channelBookingID == "" {
		return nil, errors.New("payload missing channel_booking_id")
	}
	entity, err := c.bookingRepo.FindByChannelRef(ctx, channelBookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Events can arrive out of order; the retry schedule gives the
			// created event time to land first.
			return nil, errs.Mark(
				errs.New("no local booking for channel ref "+channelBookingID),
				errRemoteBookingNotMirrored,
			)
		}
		return nil, errs.Wrap(err, "failed to look up mirrored booking")
	}
	return entity, nil
}

// publish is best-effort: downstream consumers are conveniences, not part of
// the reconciliation contract.
func (c *webhookCommandsImpl) publish(ctx context.Context, routingKey string, payload any) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, routingKey, payload); err != nil {
		slog.Warn("event publish failed", "routing_key", routingKey, "error", err)
	}
}

func deterministicJobID(parts ...string) uuid.UUID {
	name := ""
	for _, p := range parts {
		name += p + "/"
	}
	return uuid.NewSHA1(jobNamespace, []byte(name))
}

func mirrorIdempotencyKey(channelBookingID string) string {
	return "channel-mirror-" + channelBookingID
}
