package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/infrastructure/security"
	"github.com/waste3d/coursehub/internal/platform/logger"
	"github.com/waste3d/coursehub/internal/transport/http/response"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	identity *usecase.IdentityUseCase
	verifier *security.WebhookVerifier
	log      *logger.Logger
}

func NewWebhookHandler(uc *usecase.IdentityUseCase, v *security.WebhookVerifier, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{identity: uc, verifier: v, log: log.With("handler", "WebhookHandler")}
}

// POST /api/webhooks/identity
func (h *WebhookHandler) Identity(c *gin.Context) {
	if h.verifier == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.ErrorEnvelope{
			Error: response.APIError{Message: "webhook secret not configured", Code: "unavailable"},
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(c, "unreadable body")
		return
	}

	id := c.GetHeader("svix-id")
	err = h.verifier.Verify(id, c.GetHeader("svix-timestamp"), c.GetHeader("svix-signature"), body)
	if err != nil {
		h.log.Warn("webhook verification failed", "delivery_id", id, "error", err)
		response.BadRequest(c, "webhook verification failed")
		return
	}

	var evt usecase.IdentityEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		response.BadRequest(c, "malformed event")
		return
	}
	if err := h.identity.HandleEvent(c.Request.Context(), id, evt); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusOK)
}
