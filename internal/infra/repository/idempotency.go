package repository

import (
	"context"
	"time"

	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/pkg/pgconv"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(pool db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: pool}
}

// TryInsert claims the key. A live key is left untouched and the claim is
// lost; an expired key is reclaimed in place so stale rows never block a new
// request with the same key.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, requestHash string, expiresAt time.Time) (bool, error) {
	const query = `
		INSERT INTO idempotency_keys (key, request_hash, status, expires_at)
		VALUES ($1, $2, 'processing', $3)
		ON CONFLICT (key) DO UPDATE
		SET request_hash = EXCLUDED.request_hash,
		    status = 'processing',
		    response_body = NULL,
		    response_status = NULL,
		    result_booking_id = NULL,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = now()
		WHERE idempotency_keys.expires_at <= now()`

	tag, err := r.db.Exec(ctx, query, key, requestHash, pgconv.TimeToPgtype(expiresAt))
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*commands.IdempotencyRecord, error) {
	const query = `
		SELECT key, request_hash, status, response_body, response_status, result_booking_id, expires_at
		FROM idempotency_keys
		WHERE key = $1`

	var (
		record          commands.IdempotencyRecord
		responseBody    []byte
		responseStatus  pgtype.Int4
		resultBookingID pgtype.UUID
		expiresAt       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, key).Scan(
		&record.Key,
		&record.RequestHash,
		&record.Status,
		&responseBody,
		&responseStatus,
		&resultBookingID,
		&expiresAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}

	record.ResponseBody = responseBody
	if responseStatus.Valid {
		record.ResponseStatus = int(responseStatus.Int32)
	}
	record.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultBookingID)
	record.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &record, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, tx db.DBTX, key string, responseBody []byte, responseStatus int, resultBookingID uuid.UUID) error {
	const query = `
		UPDATE idempotency_keys
		SET status = 'completed',
		    response_body = $2,
		    response_status = $3,
		    result_booking_id = $4,
		    updated_at = now()
		WHERE key = $1 AND status = 'processing'`

	tag, err := tx.Exec(ctx, query, key, responseBody, responseStatus, pgconv.UUIDToPgtype(resultBookingID))
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not in processing state", nil, infra.KindConflict)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM idempotency_keys WHERE expires_at <= now()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}

var _ commands.IdempotencyRepository = (*IdempotencyRepository)(nil)
