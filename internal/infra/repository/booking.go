package repository

import (
	"context"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/brand"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/pkg/pgconv"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(pool db.DBTX) *BookingRepository {
	return &BookingRepository{db: pool}
}

const bookingColumns = `
	id, brand, unit_id, guest_name, guest_email, guest_phone,
	check_in, check_out, total_price_cents, currency,
	status, payment_status, payment_method,
	idempotency_key, request_hash, channel_booking_id,
	created_at, updated_at
`

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, brand, unit_id, guest_name, guest_email, guest_phone,
			check_in, check_out, nights, total_price_cents, currency,
			status, payment_status, payment_method,
			idempotency_key, request_hash, channel_booking_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17,
			$18, $19
		)`

	_, err := tx.Exec(ctx, query,
		pgconv.UUIDToPgtype(b.ID()),
		b.Brand().String(),
		pgconv.UUIDToPgtype(b.UnitID()),
		b.Guest().Name(),
		b.Guest().Email(),
		b.Guest().Phone(),
		pgconv.DateToPgtype(b.Stay().CheckIn()),
		pgconv.DateToPgtype(b.Stay().CheckOut()),
		b.Nights(),
		b.TotalPrice().Cents(),
		b.TotalPrice().Currency(),
		b.Status().String(),
		string(b.PaymentStatus()),
		string(b.PaymentMethod()),
		b.IdempotencyKey(),
		b.RequestHash(),
		pgconv.StringPtrToPgtype(b.ChannelBookingID()),
		pgconv.TimeToPgtype(b.CreatedAt()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) HasOverlap(ctx context.Context, tx db.DBTX, unitID uuid.UUID, stay booking.StayRange) (bool, error) {
	// Half-open on both ends: a stay checking out on day N does not block a
	// stay checking in on day N. Mirrors the exclusion constraint.
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE unit_id = $1
			  AND status NOT IN ('CANCELLED', 'NO_SHOW')
			  AND check_in < $3
			  AND check_out > $2
		)`

	var exists bool
	err := tx.QueryRow(ctx, query,
		pgconv.UUIDToPgtype(unitID),
		pgconv.DateToPgtype(stay.CheckIn()),
		pgconv.DateToPgtype(stay.CheckOut()),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)))
}

func (r *BookingRepository) FindByChannelRef(ctx context.Context, channelRef string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE channel_booking_id = $1`
	return scanBooking(r.db.QueryRow(ctx, query, channelRef))
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		pgconv.UUIDToPgtype(b.ID()),
		b.Status().String(),
		string(b.PaymentStatus()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) UpdateChannelRef(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	// Write-once: a ref assigned by an earlier forward is never clobbered.
	const query = `
		UPDATE bookings
		SET channel_booking_id = $2, updated_at = $3
		WHERE id = $1 AND channel_booking_id IS NULL`

	tag, err := tx.Exec(ctx, query,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.StringPtrToPgtype(b.ChannelBookingID()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update channel booking ref", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking missing or ref already set", nil, infra.KindConflict)
	}
	return nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id               pgtype.UUID
		brandName        string
		unitID           pgtype.UUID
		guestName        string
		guestEmail       string
		guestPhone       string
		checkIn          pgtype.Date
		checkOut         pgtype.Date
		totalPriceCents  int64
		currency         string
		status           string
		paymentStatus    string
		paymentMethod    string
		idempotencyKey   string
		requestHash      string
		channelBookingID pgtype.Text
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &brandName, &unitID, &guestName, &guestEmail, &guestPhone,
		&checkIn, &checkOut, &totalPriceCents, &currency,
		&status, &paymentStatus, &paymentMethod,
		&idempotencyKey, &requestHash, &channelBookingID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	guest, err := booking.NewGuest(guestName, guestEmail, guestPhone)
	if err != nil {
		return nil, infra.WrapRepoErr("stored guest is invalid", err, infra.KindDBFailure)
	}
	stay, err := booking.NewStayRange(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut))
	if err != nil {
		return nil, infra.WrapRepoErr("stored stay range is invalid", err, infra.KindDBFailure)
	}
	price, err := booking.NewMoney(totalPriceCents, currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored price is invalid", err, infra.KindDBFailure)
	}

	return booking.ReconstructBooking(
		uuid.UUID(id.Bytes),
		brand.Brand(brandName),
		uuid.UUID(unitID.Bytes),
		guest,
		stay,
		price,
		booking.Status(status),
		booking.PaymentStatus(paymentStatus),
		booking.PaymentMethod(paymentMethod),
		idempotencyKey,
		requestHash,
		pgconv.StringPtrFromPgtype(channelBookingID),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

var _ commands.BookingRepository = (*BookingRepository)(nil)
