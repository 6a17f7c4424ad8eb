//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestUnit inserts a unit with a nightly rate and returns its id.
func CreateTestUnit(t *testing.T, db DBLike, brand, name string, nightlyRateCents int64) uuid.UUID {
	t.Helper()

	unitID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO units (id, brand, name, nightly_rate_cents, currency, address) VALUES ($1, $2, $3, $4, 'EUR', '1 Harbour St')",
		unitID, brand, name, nightlyRateCents)
	require.NoError(t, err)

	return unitID
}

// CreateTestMonthlyUnit inserts a unit priced per month only.
func CreateTestMonthlyUnit(t *testing.T, db DBLike, brand, name string, monthlyRateCents int64) uuid.UUID {
	t.Helper()

	unitID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO units (id, brand, name, monthly_rate_cents, currency, address) VALUES ($1, $2, $3, $4, 'EUR', '1 Harbour St')",
		unitID, brand, name, monthlyRateCents)
	require.NoError(t, err)

	return unitID
}

// CreateMirroredBooking inserts a confirmed booking that carries a channel
// reference, the state a standalone-brand booking is in after webhook sync.
func CreateMirroredBooking(t *testing.T, db DBLike, brand string, unitID uuid.UUID, channelRef string, checkIn, checkOut time.Time) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO bookings (id, brand, unit_id, guest_name, guest_email, check_in, check_out,
		                      nights, total_price_cents, currency, status, payment_status, payment_method,
		                      idempotency_key, request_hash, channel_booking_id)
		VALUES ($1, $2, $3, 'Remote Guest', 'remote@example.com', $4, $5,
		        $6, $7, 'EUR', 'CONFIRMED', 'AWAITING_TRANSFER', 'bank_transfer',
		        'channel:'||$8, 'channel', $8)`,
		bookingID, brand, unitID, checkIn, checkOut, nights, int64(nights)*10000, channelRef)
	require.NoError(t, err)

	return bookingID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
