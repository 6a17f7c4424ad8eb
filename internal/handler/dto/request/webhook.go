package request

import (
	"encoding/json"
)

// IngestWebhookRequest is the channel manager's envelope: a type tag plus an
// opaque payload that is only parsed at processing time.
type IngestWebhookRequest struct {
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload" binding:"required"`
}
