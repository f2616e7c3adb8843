package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/domain"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/middleware"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/resolver"
	jsonwriter "github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http/json"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http/shared"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// ResolverService resolves raw identity fields to a canonical contact id.
type ResolverService interface {
	Resolve(ctx context.Context, communityID string, in resolver.ResolveInput) (resolver.Resolution, error)
}

// AssociationReader reads the derived contact association index.
type AssociationReader interface {
	LinksFor(ctx context.Context, contactID string) (domain.AssociationLinks, error)
}

// AccessGate checks per-community membership for the authenticated caller.
type AccessGate interface {
	HasAccess(ctx context.Context, email, communityID string) (bool, error)
}

type ContactsHandler struct {
	resolver ResolverService
	links    AssociationReader
	gate     AccessGate
}

func NewContactsHandler(resolverSvc ResolverService, links AssociationReader, gate AccessGate) *ContactsHandler {
	return &ContactsHandler{resolver: resolverSvc, links: links, gate: gate}
}

func (h *ContactsHandler) Register(r chi.Router) {
	r.Post("/contacts/resolve", h.handleResolve)
	r.Get("/contacts/{contactID}/associations", h.handleAssociations)
}

type resolveRequest struct {
	CommunityID string `json:"community_id"`
	ContactID   string `json:"contact_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ContactType string `json:"contact_type,omitempty"`
	Notes       string `json:"notes,omitempty"`
	BusinessID  string `json:"business_id,omitempty"`
	PropertyID  string `json:"property_id,omitempty"`
}

func (h *ContactsHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !requireAccess(w, r, h.gate, req.CommunityID) {
		return
	}

	res, err := h.resolver.Resolve(r.Context(), req.CommunityID, resolver.ResolveInput{
		ContactID:   req.ContactID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ContactType: req.ContactType,
		Notes:       req.Notes,
		BusinessID:  req.BusinessID,
		PropertyID:  req.PropertyID,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonwriter.WriteJSON(w, http.StatusOK, res)
}

func (h *ContactsHandler) handleAssociations(w http.ResponseWriter, r *http.Request) {
	communityID := r.URL.Query().Get("community_id")
	if !requireAccess(w, r, h.gate, communityID) {
		return
	}

	contactID := chi.URLParam(r, "contactID")
	links, err := h.links.LinksFor(r.Context(), contactID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	jsonwriter.WriteJSON(w, http.StatusOK, links)
}

// requireAccess enforces the per-community membership check shared by every
// API endpoint. It writes the error response itself and reports whether the
// handler may proceed.
func requireAccess(w http.ResponseWriter, r *http.Request, gate AccessGate, communityID string) bool {
	if strings.TrimSpace(communityID) == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "community_id is required"))
		return false
	}
	email := middleware.GetCallerEmail(r.Context())
	ok, err := gate.HasAccess(r.Context(), email, communityID)
	if err != nil {
		shared.WriteError(w, err)
		return false
	}
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not a member of this community"))
		return false
	}
	return true
}
