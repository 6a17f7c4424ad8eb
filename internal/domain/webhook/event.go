package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTerminalEvent     = errors.New("event is in a terminal state")
	ErrInvalidTransition = errors.New("invalid event status transition")
)

// Event is one inbound notification from the channel manager, persisted so
// retry state survives process restarts.
//
// State machine:
//
//	PENDING -> PROCESSING -> COMPLETED            (terminal)
//	PROCESSING -> FAILED -> PROCESSING            (retry, the only backward edge)
//	PROCESSING -> DEAD_LETTER                     (retry budget exhausted, terminal)
type Event struct {
	id          uuid.UUID
	eventType   EventType
	payload     json.RawMessage
	status      Status
	attempts    int
	maxRetries  int
	lastError   *string
	nextRetryAt *time.Time
	processedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func NewEvent(eventType EventType, payload json.RawMessage, maxRetries int, now time.Time) *Event {
	return &Event{
		id:         uuid.New(),
		eventType:  eventType,
		payload:    payload,
		status:     StatusPending,
		maxRetries: maxRetries,
		createdAt:  now,
		updatedAt:  now,
	}
}

func ReconstructEvent(
	id uuid.UUID,
	eventType EventType,
	payload json.RawMessage,
	status Status,
	attempts, maxRetries int,
	lastError *string,
	nextRetryAt, processedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:          id,
		eventType:   eventType,
		payload:     payload,
		status:      status,
		attempts:    attempts,
		maxRetries:  maxRetries,
		lastError:   lastError,
		nextRetryAt: nextRetryAt,
		processedAt: processedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e *Event) ID() uuid.UUID           { return e.id }
func (e *Event) Type() EventType         { return e.eventType }
func (e *Event) Payload() json.RawMessage { return e.payload }
func (e *Event) Status() Status          { return e.status }
func (e *Event) Attempts() int           { return e.attempts }
func (e *Event) MaxRetries() int         { return e.maxRetries }
func (e *Event) LastError() *string      { return e.lastError }
func (e *Event) NextRetryAt() *time.Time { return e.nextRetryAt }
func (e *Event) ProcessedAt() *time.Time { return e.processedAt }
func (e *Event) CreatedAt() time.Time    { return e.createdAt }
func (e *Event) UpdatedAt() time.Time    { return e.updatedAt }

// MarkProcessing claims the event for a worker. PENDING and FAILED are the
// only states a worker may pick up from.
func (e *Event) MarkProcessing(now time.Time) error {
	if e.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalEvent, e.status)
	}
	if e.status != StatusPending && e.status != StatusFailed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.status, StatusProcessing)
	}
	e.status = StatusProcessing
	e.updatedAt = now
	return nil
}

func (e *Event) MarkCompleted(now time.Time) error {
	if e.status != StatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.status, StatusCompleted)
	}
	e.status = StatusCompleted
	e.processedAt = &now
	e.nextRetryAt = nil
	e.updatedAt = now
	return nil
}

// RecordFailure consumes one retry attempt. When the budget is exhausted the
// event dead-letters and needs manual intervention; otherwise it is scheduled
// for a backoff-governed retry.
func (e *Event) RecordFailure(cause string, baseBackoff time.Duration, now time.Time) error {
	if e.status != StatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.status, StatusFailed)
	}
	attempt := e.attempts
	e.attempts++
	e.lastError = &cause
	e.updatedAt = now

	if e.attempts >= e.maxRetries {
		e.status = StatusDeadLetter
		e.nextRetryAt = nil
		return nil
	}

	retryAt := now.Add(NextBackoff(baseBackoff, attempt))
	e.status = StatusFailed
	e.nextRetryAt = &retryAt
	return nil
}

func (e *Event) IsDeadLetter() bool {
	return e.status == StatusDeadLetter
}
