package repository

import (
	"context"
	"encoding/json"
	"time"

	"stayhub/internal/domain/webhook"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/pkg/pgconv"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type WebhookEventRepository struct {
	db db.DBTX
}

func NewWebhookEventRepository(pool db.DBTX) *WebhookEventRepository {
	return &WebhookEventRepository{db: pool}
}

func (r *WebhookEventRepository) Insert(ctx context.Context, e *webhook.Event) error {
	const query = `
		INSERT INTO webhook_events (
			id, event_type, payload, status, attempts, max_retries,
			last_error, next_retry_at, processed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		pgconv.UUIDToPgtype(e.ID()),
		e.Type().String(),
		[]byte(e.Payload()),
		e.Status().String(),
		e.Attempts(),
		e.MaxRetries(),
		pgconv.StringPtrToPgtype(e.LastError()),
		pgconv.TimePtrToPgtype(e.NextRetryAt()),
		pgconv.TimePtrToPgtype(e.ProcessedAt()),
		pgconv.TimeToPgtype(e.CreatedAt()),
		pgconv.TimeToPgtype(e.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert webhook event", err)
	}
	return nil
}

func (r *WebhookEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*webhook.Event, error) {
	const query = `
		SELECT id, event_type, payload, status, attempts, max_retries,
		       last_error, next_retry_at, processed_at, created_at, updated_at
		FROM webhook_events
		WHERE id = $1`

	var (
		eventID     pgtype.UUID
		eventType   string
		payload     []byte
		status      string
		attempts    int
		maxRetries  int
		lastError   pgtype.Text
		nextRetryAt pgtype.Timestamptz
		processedAt pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&eventID, &eventType, &payload, &status, &attempts, &maxRetries,
		&lastError, &nextRetryAt, &processedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find webhook event", err)
	}

	return webhook.ReconstructEvent(
		uuid.UUID(eventID.Bytes),
		webhook.EventType(eventType),
		json.RawMessage(payload),
		webhook.Status(status),
		attempts,
		maxRetries,
		pgconv.StringPtrFromPgtype(lastError),
		pgconv.TimePtrFromPgtype(nextRetryAt),
		pgconv.TimePtrFromPgtype(processedAt),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *WebhookEventRepository) Update(ctx context.Context, e *webhook.Event) error {
	const query = `
		UPDATE webhook_events
		SET status = $2, attempts = $3, last_error = $4,
		    next_retry_at = $5, processed_at = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		pgconv.UUIDToPgtype(e.ID()),
		e.Status().String(),
		e.Attempts(),
		pgconv.StringPtrToPgtype(e.LastError()),
		pgconv.TimePtrToPgtype(e.NextRetryAt()),
		pgconv.TimePtrToPgtype(e.ProcessedAt()),
		pgconv.TimeToPgtype(e.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update webhook event", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("webhook event not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *WebhookEventRepository) FindDueRetries(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	const query = `
		SELECT id FROM webhook_events
		WHERE status = 'FAILED' AND next_retry_at <= $1
		ORDER BY next_retry_at
		LIMIT $2`

	return r.queryIDs(ctx, query, pgconv.TimeToPgtype(now), limit)
}

func (r *WebhookEventRepository) FindPending(ctx context.Context, before time.Time, limit int) ([]uuid.UUID, error) {
	const query = `
		SELECT id FROM webhook_events
		WHERE status = 'PENDING' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`

	return r.queryIDs(ctx, query, pgconv.TimeToPgtype(before), limit)
}

func (r *WebhookEventRepository) queryIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list webhook events", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan webhook event id", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate webhook events", err)
	}
	return ids, nil
}

var _ commands.WebhookEventRepository = (*WebhookEventRepository)(nil)
