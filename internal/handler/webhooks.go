package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/djahern-max/campusconnect-backend/internal/billing"
)

// maxWebhookBody bounds how much of a webhook payload is read.
const maxWebhookBody = 1 << 20

// WebhookHandler receives billing webhook deliveries.
type WebhookHandler struct {
	processor *billing.Processor
}

func NewWebhookHandler(processor *billing.Processor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// Stripe verifies and applies one webhook delivery. Bad signatures are 400;
// a non-2xx on anything else makes Stripe retry, which the event-id dedup
// absorbs.
// POST /api/v1/webhooks/stripe
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}
	defer r.Body.Close()

	err = h.processor.Process(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, billing.ErrBadSignature) {
			writeError(w, http.StatusBadRequest, "Invalid signature")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to process event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"received": true})
}
