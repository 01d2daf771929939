package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/orderbot/internal/intent"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxWebhookBody bounds the size of a fulfillment request.
const maxWebhookBody = 1 << 20

// IntentHandler turns a fulfillment request into reply text.
type IntentHandler interface {
	Handle(ctx context.Context, r *intent.Request) string
}

// WebhookHandler serves the Dialogflow fulfillment endpoint.
type WebhookHandler struct {
	intents IntentHandler
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(intents IntentHandler) *WebhookHandler {
	return &WebhookHandler{intents: intents}
}

// RegisterRoutes registers the fulfillment routes.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Fulfill)
	r.Post("/webhook", h.Fulfill)
}

// Fulfill decodes one fulfillment request and replies with its text.
// Every well-formed request gets 200, including ones whose order step failed.
func (h *WebhookHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)

	var req intent.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		slog.Warn("Malformed fulfillment request",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := h.intents.Handle(r.Context(), &req)
	JSON(w, http.StatusOK, intent.Response{FulfillmentText: text})
}
