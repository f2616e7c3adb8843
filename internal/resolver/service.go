// Package resolver turns raw identity fields into a canonical registry
// contact id without creating duplicates. Resolution searches one key at a
// time in a fixed priority order, so a precise email match always beats a
// looser name match.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/assoc"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/registry"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
	"github.com/citiesense/ginkgo-stakeholder-portal/pkg/identity"
)

// provenanceMarker is appended to the notes of every portal-originated
// create or update so registry consumers can audit portal edits.
const provenanceMarker = "[source: stakeholder-portal]"

// ResolveInput carries the raw identity fields from a portal submission.
// ContactID, when set, asserts the caller already knows the canonical id and
// skips matching entirely.
type ResolveInput struct {
	ContactID   string
	Name        string
	Email       string
	Phone       string
	ContactType string
	Notes       string

	// Optional entities to link the resolved contact to as a side effect.
	BusinessID string
	PropertyID string
}

// Resolution is the outcome of a resolve call.
type Resolution struct {
	ContactID string `json:"contact_id"`
	Created   bool   `json:"created"`

	// MatchedBy names the key that matched an existing contact: "email",
	// "phone", "name", "supplied", or "" for a fresh create.
	MatchedBy string `json:"matched_by,omitempty"`
}

// matcher is one step of the resolution priority chain. Adding or reordering
// a matching key is a change to this slice, not to control flow.
type matcher struct {
	key   string
	value func(in ResolveInput) string
}

var contactMatchers = []matcher{
	{key: "email", value: func(in ResolveInput) string { return strings.TrimSpace(in.Email) }},
	{key: "phone", value: func(in ResolveInput) string { return strings.TrimSpace(in.Phone) }},
	{key: "name", value: func(in ResolveInput) string { return strings.TrimSpace(in.Name) }},
}

// Linker is the association index surface the resolver needs.
type Linker interface {
	Link(ctx context.Context, contactID string, opts assoc.LinkOpts) error
}

// EventLogger records portal audit events; nil disables event emission.
type EventLogger interface {
	Emit(ctx context.Context, communityID, name string, payload map[string]any) (string, error)
}

// Service resolves identities against the registry.
type Service struct {
	clients registry.ClientFactory
	links   Linker
	events  EventLogger
	logger  *slog.Logger
	metrics *Metrics
}

func New(clients registry.ClientFactory, links Linker, events EventLogger, logger *slog.Logger, metrics *Metrics) *Service {
	return &Service{
		clients: clients,
		links:   links,
		events:  events,
		logger:  logger,
		metrics: metrics,
	}
}

// Resolve returns exactly one canonical contact id for the supplied
// identity: the asserted id, the first match of the priority chain, or a
// freshly created contact. Registry failures abort the operation; the
// association side effect and audit event are best-effort and never fail a
// resolution that already happened.
func (s *Service) Resolve(ctx context.Context, communityID string, in ResolveInput) (Resolution, error) {
	if err := validateInput(in); err != nil {
		return Resolution{}, err
	}

	client, err := s.clients.ForCommunity(ctx, communityID)
	if err != nil {
		return Resolution{}, err
	}

	fields := contactFields(in)
	res, err := s.resolveContact(ctx, client, in, fields)
	if err != nil {
		return Resolution{}, err
	}

	if s.links != nil && (in.BusinessID != "" || in.PropertyID != "") {
		linkErr := s.links.Link(ctx, res.ContactID, assoc.LinkOpts{
			BusinessID: in.BusinessID,
			PropertyID: in.PropertyID,
		})
		if linkErr != nil {
			// The registry write already happened; a degraded index must
			// not undo it. Reverse lookups for this contact stay stale
			// until the next successful link.
			s.logger.WarnContext(ctx, "association link failed",
				"error", linkErr,
				"contact_id", res.ContactID,
				"community_id", communityID,
			)
		}
	}

	s.emitResolved(ctx, communityID, res)
	return res, nil
}

func (s *Service) resolveContact(ctx context.Context, client registry.Client, in ResolveInput, fields map[string]any) (Resolution, error) {
	if id := strings.TrimSpace(in.ContactID); id != "" {
		if _, err := client.Update(ctx, registry.KindContact, id, fields); err != nil {
			return Resolution{}, err
		}
		return Resolution{ContactID: id, MatchedBy: "supplied"}, nil
	}

	for _, m := range contactMatchers {
		query := m.value(in)
		if query == "" {
			continue
		}
		recs, err := client.Search(ctx, registry.KindContact, query)
		if err != nil {
			return Resolution{}, err
		}
		if len(recs) == 0 {
			continue
		}

		matchedID := recs[0].ID()
		if _, err := client.Update(ctx, registry.KindContact, matchedID, fields); err != nil {
			return Resolution{}, err
		}
		s.metrics.incrementMatched(m.key)
		return Resolution{ContactID: matchedID, MatchedBy: m.key}, nil
	}

	rec, err := client.Create(ctx, registry.KindContact, fields)
	if err != nil {
		return Resolution{}, err
	}
	if rec.ID() == "" {
		return Resolution{}, dErrors.New(dErrors.CodeUpstream, "registry create returned no id")
	}
	s.metrics.incrementCreated()
	return Resolution{ContactID: rec.ID(), Created: true}, nil
}

func (s *Service) emitResolved(ctx context.Context, communityID string, res Resolution) {
	if s.events == nil {
		return
	}
	name := "contact.resolved"
	if res.Created {
		name = "contact.created"
	}
	if _, err := s.events.Emit(ctx, communityID, name, map[string]any{
		"contact_id": res.ContactID,
		"matched_by": res.MatchedBy,
	}); err != nil {
		s.logger.WarnContext(ctx, "audit event emission failed",
			"error", err,
			"event", name,
			"contact_id", res.ContactID,
		)
	}
}

func validateInput(in ResolveInput) error {
	if strings.TrimSpace(in.ContactID) != "" {
		return nil
	}
	if strings.TrimSpace(in.Name) == "" &&
		strings.TrimSpace(in.Email) == "" &&
		strings.TrimSpace(in.Phone) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "at least one of name, email, or phone is required")
	}
	return nil
}

// contactFields builds the registry field set for create/update. Omitted
// inputs are left out entirely so the registry keeps its current values
// (last-write-wins applies per supplied field only).
func contactFields(in ResolveInput) map[string]any {
	fields := map[string]any{}

	parts := identity.SplitFullName(in.Name)
	if parts.Name != "" {
		fields["name"] = parts.Name
	}
	if parts.FirstName != "" {
		fields["first_name"] = parts.FirstName
		fields["last_name"] = parts.LastName
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		fields["email"] = email
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		fields["phone"] = phone
	}
	if ct := strings.TrimSpace(in.ContactType); ct != "" {
		fields["contact_type"] = ct
	}
	fields["notes"] = withProvenance(in.Notes)
	return fields
}

func withProvenance(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return provenanceMarker
	}
	if strings.Contains(notes, provenanceMarker) {
		return notes
	}
	return notes + "\n" + provenanceMarker
}
