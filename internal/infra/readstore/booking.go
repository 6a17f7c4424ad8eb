package readstore

import (
	"context"

	"stayhub/internal/domain/booking"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/pkg/pgconv"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(pool db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: pool}
}

func (s *BookingReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const query = `
		SELECT b.id, b.brand, b.unit_id, u.name,
		       b.guest_name, b.guest_email,
		       b.check_in, b.check_out, b.nights,
		       b.total_price_cents, b.currency,
		       b.status, b.payment_status, b.channel_booking_id,
		       b.created_at, b.updated_at
		FROM bookings b
		JOIN units u ON u.id = b.unit_id
		WHERE b.id = $1`

	var (
		view             queries.BookingView
		bookingID        pgtype.UUID
		unitID           pgtype.UUID
		checkIn          pgtype.Date
		checkOut         pgtype.Date
		channelBookingID pgtype.Text
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&bookingID, &view.Brand, &unitID, &view.UnitName,
		&view.GuestName, &view.GuestEmail,
		&checkIn, &checkOut, &view.Nights,
		&view.TotalPriceCents, &view.Currency,
		&view.Status, &view.PaymentStatus, &channelBookingID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	view.ID = uuid.UUID(bookingID.Bytes)
	view.UnitID = uuid.UUID(unitID.Bytes)
	view.CheckIn = pgconv.DateFromPgtype(checkIn)
	view.CheckOut = pgconv.DateFromPgtype(checkOut)
	view.ChannelBookingID = pgconv.StringPtrFromPgtype(channelBookingID)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func (s *BookingReadStore) FindByGuestEmail(ctx context.Context, email string, limit int32) ([]*queries.BookingListItem, error) {
	const query = `
		SELECT b.id, b.brand, u.name, b.check_in, b.check_out,
		       b.status, b.total_price_cents, b.created_at
		FROM bookings b
		JOIN units u ON u.id = b.unit_id
		WHERE b.guest_email = $1
		ORDER BY b.created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, email, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by guest", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var (
			item      queries.BookingListItem
			bookingID pgtype.UUID
			checkIn   pgtype.Date
			checkOut  pgtype.Date
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&bookingID, &item.Brand, &item.UnitName, &checkIn, &checkOut,
			&item.Status, &item.TotalPriceCents, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		item.ID = uuid.UUID(bookingID.Bytes)
		item.CheckIn = pgconv.DateFromPgtype(checkIn)
		item.CheckOut = pgconv.DateFromPgtype(checkOut)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list", err)
	}
	return items, nil
}

// IsAvailable is advisory only: quotes read it, but booking creation relies
// on the transactional re-check and the exclusion constraint.
func (s *BookingReadStore) IsAvailable(ctx context.Context, unitID uuid.UUID, stay booking.StayRange) (bool, error) {
	const query = `
		SELECT NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE unit_id = $1
			  AND status NOT IN ('CANCELLED', 'NO_SHOW')
			  AND check_in < $3
			  AND check_out > $2
		)`

	var available bool
	err := s.db.QueryRow(ctx, query,
		pgconv.UUIDToPgtype(unitID),
		pgconv.DateToPgtype(stay.CheckIn()),
		pgconv.DateToPgtype(stay.CheckOut()),
	).Scan(&available)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check availability", err)
	}
	return available, nil
}

var _ queries.BookingReadStore = (*BookingReadStore)(nil)
