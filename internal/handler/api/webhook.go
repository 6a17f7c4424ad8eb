package api

import (
	"crypto/subtle"
	"errors"
	"net/http"

	reqdto "stayhub/internal/handler/dto/request"
	"stayhub/internal/handler/httperr"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/worker"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	webhookCommands commands.WebhookCommands
	processor       *worker.Processor
	ingestToken     string
}

func NewWebhookHandler(webhookCommands commands.WebhookCommands, processor *worker.Processor, cfg config.WebhookConfig) *WebhookHandler {
	return &WebhookHandler{
		webhookCommands: webhookCommands,
		processor:       processor,
		ingestToken:     cfg.IngestToken,
	}
}

// @Summary Ingest channel webhook
// @Description Accept an event from the channel manager for asynchronous processing
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Token header string false "Shared ingestion token"
// @Param request body reqdto.IngestWebhookRequest true "Event envelope"
// @Success 202 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /webhooks/channel [post]
func (h *WebhookHandler) Ingest(c *gin.Context) {
	if h.ingestToken != "" {
		token := c.GetHeader("X-Webhook-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.ingestToken)) != 1 {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errors.New("bad webhook token"),
				httperr.CodeUnauthorized, "Invalid webhook token", nil)
			return
		}
	}

	var req reqdto.IngestWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidRequest, "Invalid event envelope", nil)
		return
	}

	event, err := h.webhookCommands.Ingest(c.Request.Context(), commands.RawEvent{
		Type:    req.Type,
		Payload: req.Payload,
	})
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
		return
	}

	// Queue overflow is fine: the event is durable and the poller will
	// find it again.
	h.processor.Enqueue(event.ID())

	c.JSON(http.StatusAccepted, gin.H{
		"event_id": event.ID().String(),
		"status":   event.Status().String(),
	})
}
