package payment

import (
	"net/http"
	"strings"

	"lashstudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Published YooKassa notification source ranges, plus loopback for
// local testing.
var trustedPrefixes = []string{
	"185.71.76.",
	"185.71.77.",
	"77.75.153.",
	"77.75.154.",
	"77.75.156.35",
	"127.0.0.1",
	"::1",
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the webhook endpoint. It stays outside the
// telegram-auth group; the provider authenticates by source address.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.Webhook)
}

func (h *Handler) Webhook(c *gin.Context) {
	if !trustedSource(c.ClientIP()) {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Untrusted source")
		return
	}

	var n WebhookNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid notification body")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), n); err != nil {
		if err == ErrBadNotification {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid notification body")
			return
		}
		// Non-2xx makes the provider retry later.
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal error")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func trustedSource(ip string) bool {
	for _, p := range trustedPrefixes {
		if strings.HasPrefix(ip, p) {
			return true
		}
	}
	return false
}
