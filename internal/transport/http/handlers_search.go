package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/domain"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/reveal"
	jsonwriter "github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http/json"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http/shared"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// RevealService matches identity claims and searches disclosure-safe views.
type RevealService interface {
	SearchAssociated(ctx context.Context, communityID, email, phone string) (reveal.AssociatedResult, error)
	SearchBusinesses(ctx context.Context, communityID, query string) ([]domain.BusinessView, error)
	SearchProperties(ctx context.Context, communityID, query string) ([]domain.PropertyView, error)
}

type SearchHandler struct {
	reveal RevealService
	gate   AccessGate
}

func NewSearchHandler(revealSvc RevealService, gate AccessGate) *SearchHandler {
	return &SearchHandler{reveal: revealSvc, gate: gate}
}

func (h *SearchHandler) Register(r chi.Router) {
	r.Post("/search/associated-by-contact", h.handleAssociatedByContact)
	r.Post("/search/businesses", h.handleBusinesses)
	r.Post("/search/properties", h.handleProperties)
}

type associatedRequest struct {
	CommunityID string `json:"community_id"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

func (h *SearchHandler) handleAssociatedByContact(w http.ResponseWriter, r *http.Request) {
	var req associatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !requireAccess(w, r, h.gate, req.CommunityID) {
		return
	}

	res, err := h.reveal.SearchAssociated(r.Context(), req.CommunityID, req.Email, req.Phone)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonwriter.WriteJSON(w, http.StatusOK, res)
}

type searchRequest struct {
	CommunityID string `json:"community_id"`
	Query       string `json:"q"`
}

func (h *SearchHandler) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSearch(w, r)
	if !ok {
		return
	}
	views, err := h.reveal.SearchBusinesses(r.Context(), req.CommunityID, req.Query)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonwriter.WriteJSON(w, http.StatusOK, map[string]any{"results": views})
}

func (h *SearchHandler) handleProperties(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSearch(w, r)
	if !ok {
		return
	}
	views, err := h.reveal.SearchProperties(r.Context(), req.CommunityID, req.Query)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonwriter.WriteJSON(w, http.StatusOK, map[string]any{"results": views})
}

func (h *SearchHandler) decodeSearch(w http.ResponseWriter, r *http.Request) (searchRequest, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return searchRequest{}, false
	}
	if !requireAccess(w, r, h.gate, req.CommunityID) {
		return searchRequest{}, false
	}
	return req, true
}
