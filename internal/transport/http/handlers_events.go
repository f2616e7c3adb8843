package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	jsonwriter "github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http/json"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http/shared"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// EventService records portal audit events in the registry.
type EventService interface {
	Emit(ctx context.Context, communityID, name string, payload map[string]any) (string, error)
}

type EventsHandler struct {
	events EventService
	gate   AccessGate
}

func NewEventsHandler(events EventService, gate AccessGate) *EventsHandler {
	return &EventsHandler{events: events, gate: gate}
}

func (h *EventsHandler) Register(r chi.Router) {
	r.Post("/events", h.handleLogEvent)
}

type eventRequest struct {
	CommunityID string         `json:"community_id"`
	Name        string         `json:"name"`
	Payload     map[string]any `json:"payload,omitempty"`
}

func (h *EventsHandler) handleLogEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "event name is required"))
		return
	}
	if !requireAccess(w, r, h.gate, req.CommunityID) {
		return
	}

	eventID, err := h.events.Emit(r.Context(), req.CommunityID, req.Name, req.Payload)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonwriter.WriteJSON(w, http.StatusOK, map[string]string{"event_id": eventID})
}
