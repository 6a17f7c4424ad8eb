package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/brand"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/infra/metrics"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBrandUnknown            = errs.New("brand unknown")
	ErrWriterLockViolation     = errs.New("writer lock violation")
	ErrUnitNotFound            = errs.New("unit not found")
	ErrNightsOutOfRange        = errs.New("nights out of range")
	ErrInvalidStay             = errs.New("invalid stay range")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrIdempotencyKeyReuse     = errs.New("idempotency key reused with different payload")
	ErrIdempotencyInProgress   = errs.New("idempotent request still in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const (
	idempotencyKeyMinLen = 8
	idempotencyTTL       = 24 * time.Hour
)

// WriterLockError names the system that actually owns booking writes for the
// brand so a misrouted caller can redirect.
type WriterLockError struct {
	Brand  brand.Brand
	Mode   brand.Mode
	Writer string
}

func (e *WriterLockError) Error() string {
	return fmt.Sprintf("brand %q runs in %s mode: bookings are written by %q, not this hub", e.Brand, e.Mode, e.Writer)
}

func (e *WriterLockError) Is(target error) bool {
	return target == ErrWriterLockViolation
}

type CreateBookingParams struct {
	Brand         string        `json:"brand"`
	UnitID        uuid.UUID     `json:"unit_id"`
	GuestName     string        `json:"guest_name"`
	GuestEmail    string        `json:"guest_email"`
	GuestPhone    string        `json:"guest_phone"`
	CheckIn       time.Time     `json:"check_in"`
	CheckOut      time.Time     `json:"check_out"`
	PaymentMethod string        `json:"payment_method"`
	// Never hashed or persisted through this struct; excluded from the
	// canonical request hash on purpose.
	IdempotencyKey string `json:"-"`
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
	// RawResponse is the byte-identical cached body on replays; Status is
	// the HTTP status the original execution answered with.
	RawResponse []byte
	Status      int
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, id uuid.UUID) error
}

type bookingCommandsImpl struct {
	registry         *brand.Registry
	bookingRepo      BookingRepository
	unitRepo         UnitRepository
	idempotencyRepo  IdempotencyRepository
	notificationRepo NotificationRepository
	channelClient    ChannelClient
	services         *booking.Services
	db               *pgxpool.Pool
	clock            clock.Clock
}

func NewBookingCommands(
	registry *brand.Registry,
	bookingRepo BookingRepository,
	unitRepo UnitRepository,
	idempotencyRepo IdempotencyRepository,
	notificationRepo NotificationRepository,
	channelClient ChannelClient,
	services *booking.Services,
	pool *pgxpool.Pool,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		registry:         registry,
		bookingRepo:      bookingRepo,
		unitRepo:         unitRepo,
		idempotencyRepo:  idempotencyRepo,
		notificationRepo: notificationRepo,
		channelClient:    channelClient,
		services:         services,
		db:               pool,
		clock:            clk,
	}
}

// CreateBooking runs the gate sequence in a fixed order; every gate either
// passes or returns a distinct typed error. The writer-lock check comes
// first so a misrouted standalone-brand request performs no I/O at all.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, params CreateBookingParams) (*CreateBookingResult, error) {
	def, err := c.registry.Lookup(brand.Brand(params.Brand))
	if err != nil {
		return nil, errs.Mark(err, ErrBrandUnknown)
	}
	if !c.registry.IsLocalWriteAllowed(def.Name) {
		return nil, &WriterLockError{Brand: def.Name, Mode: def.Mode, Writer: def.Writer}
	}

	stay, err := booking.NewStayRange(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidStay)
	}
	if nights := stay.Nights(); nights < def.MinNights || nights > def.MaxNights {
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("%d nights, brand %q allows [%d,%d]", nights, def.Name, def.MinNights, def.MaxNights)),
			ErrNightsOutOfRange,
		)
	}

	requestHash := calculateRequestHash(params)
	replayed, err := c.handleIdempotency(ctx, params.IdempotencyKey, requestHash)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	return c.createNewBooking(ctx, def, params, stay, requestHash)
}

// handleIdempotency claims the key and arbitrates replays. Returns a non-nil
// result only when the key holds a completed response for the same payload.
func (c *bookingCommandsImpl) handleIdempotency(ctx context.Context, key, requestHash string) (*CreateBookingResult, error) {
	expiresAt := c.clock.Now().Add(idempotencyTTL)
	claimed, err := c.idempotencyRepo.TryInsert(ctx, key, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	record, err := c.idempotencyRepo.Get(ctx, key)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	if record.RequestHash != requestHash {
		return nil, ErrIdempotencyKeyReuse
	}

	switch record.Status {
	case IdempotencyStatusCompleted:
		var view queries.BookingView
		if err := json.Unmarshal(record.ResponseBody, &view); err != nil {
			return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		metrics.BookingReplays.Inc()
		return &CreateBookingResult{
			Booking:     &view,
			IsReplayed:  true,
			RawResponse: record.ResponseBody,
			Status:      record.ResponseStatus,
		}, nil

	case IdempotencyStatusProcessing:
		// Same payload, first execution still in flight somewhere else.
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.Mark(errs.New("invalid idempotency key status "+record.Status), ErrIdempotencyCheckFailed)
	}
}

func (c *bookingCommandsImpl) createNewBooking(
	ctx context.Context,
	def brand.Definition,
	params CreateBookingParams,
	stay booking.StayRange,
	requestHash string,
) (*CreateBookingResult, error) {
	unit, err := c.validateAndGetUnit(ctx, def, params.UnitID)
	if err != nil {
		return nil, err
	}

	guest, err := booking.NewGuest(params.GuestName, params.GuestEmail, params.GuestPhone)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
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
		booking.PaymentMethod(params.PaymentMethod),
		params.IdempotencyKey,
		requestHash,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	view, body, err := c.executeBookingTransaction(ctx, entity, unit, params.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues(def.Name.String(), "api").Inc()
	c.forwardToChannel(ctx, def, entity)

	return &CreateBookingResult{Booking: view, IsReplayed: false, RawResponse: body, Status: http.StatusCreated}, nil
}

// executeBookingTransaction runs the availability re-check, the insert and
// the idempotency completion in one transaction. The availability read is
// deliberately the last thing before the insert; the exclusion constraint on
// the bookings table closes the remaining read-then-write window, surfacing
// as a conflict kind here when two requests race past the check.
func (c *bookingCommandsImpl) executeBookingTransaction(
	ctx context.Context,
	entity *booking.Booking,
	unit *UnitSnapshot,
	idempotencyKey string,
) (*queries.BookingView, []byte, error) {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	taken, err := c.bookingRepo.HasOverlap(ctx, tx, entity.UnitID(), entity.Stay())
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if taken {
		return nil, nil, ErrBookingConflict
	}

	if err := c.bookingRepo.Create(ctx, tx, entity); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, nil, ErrBookingConflict
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := c.createBookedNotification(ctx, tx, entity, unit); err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view := queries.BookingViewFromEntity(entity, unit.Name)
	body, err := json.Marshal(view)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := c.idempotencyRepo.MarkCompleted(ctx, tx, idempotencyKey, body, http.StatusCreated, entity.ID()); err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return view, body, nil
}

func (c *bookingCommandsImpl) validateAndGetUnit(ctx context.Context, def brand.Definition, unitID uuid.UUID) (*UnitSnapshot, error) {
	unit, err := c.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if unit.Brand != def.Name.String() {
		// A unit listed under another brand does not exist for this one.
		return nil, ErrUnitNotFound
	}
	return unit, nil
}

// forwardToChannel is best-effort on purpose: the local row is already the
// durable record and the webhook pipeline reconciles the channel side later.
func (c *bookingCommandsImpl) forwardToChannel(ctx context.Context, def brand.Definition, entity *booking.Booking) {
	if !def.ChannelSync || c.channelClient == nil {
		return
	}
	ref, err := c.channelClient.PushBooking(ctx, entity)
	if err != nil {
		slog.Warn("channel manager forward failed, booking kept local",
			"booking_id", entity.ID(),
			"brand", def.Name.String(),
			"writer", def.Writer,
			"error", err)
		return
	}
	if err := entity.AttachChannelRef(ref, c.clock.Now()); err != nil {
		slog.Warn("could not record channel booking ref", "booking_id", entity.ID(), "error", err)
		return
	}
	if err := c.bookingRepo.UpdateChannelRef(ctx, c.db, entity); err != nil {
		slog.Warn("could not persist channel booking ref", "booking_id", entity.ID(), "error", err)
	}
}

func (c *bookingCommandsImpl) createBookedNotification(ctx context.Context, tx db.DBTX, entity *booking.Booking, unit *UnitSnapshot) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":  entity.ID(),
		"brand":       entity.Brand().String(),
		"unit_name":   unit.Name,
		"guest_email": entity.Guest().Email(),
		"stay":        entity.Stay().String(),
	})
	if err != nil {
		return err
	}
	return c.notificationRepo.CreateJob(ctx, tx, uuid.New(), "email", "booking_created", payload, c.clock.Now())
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, id uuid.UUID) error {
	entity, err := c.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := entity.Cancel(c.clock.Now()); err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	if err := c.bookingRepo.UpdateStatus(ctx, c.db, entity); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func calculateRequestHash(params CreateBookingParams) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
