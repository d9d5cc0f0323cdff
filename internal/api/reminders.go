package api

import (
	"net/http"

	"github.com/erazemk/garancija/internal/inventory"
	"github.com/erazemk/garancija/internal/webhook"
)

// RemindersHandler exposes the reminder digest and pushes it through the
// messaging webhook.
type RemindersHandler struct {
	Manager *inventory.Manager
	Webhook *webhook.Sender
}

// Digest handles GET /api/reminders/digest.
func (h *RemindersHandler) Digest(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"digest": h.Manager.ReminderDigest(),
	})
}

// Send handles POST /api/reminders.
func (h *RemindersHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.Webhook == nil || !h.Webhook.Enabled() {
		jsonError(w, http.StatusConflict, "no webhook configured")
		return
	}

	digest := h.Manager.ReminderDigest()
	if digest == "" {
		jsonResponse(w, http.StatusOK, map[string]string{"message": "nothing to remind"})
		return
	}

	if err := h.Webhook.Send(r.Context(), digest); err != nil {
		jsonError(w, http.StatusBadGateway, "failed to deliver reminder")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "reminder sent"})
}
