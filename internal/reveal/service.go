// Package reveal decides how much contact detail a caller may see. A caller
// proves knowledge of an email or phone; the claim is matched against the
// registry with the same candidate-key primitive the resolver uses, and
// disclosure is limited to contacts a record already links to.
package reveal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/domain"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/registry"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
	"github.com/citiesense/ginkgo-stakeholder-portal/pkg/identity"
)

// AuthzResult carries the contact ids a claim authorized disclosure for.
// Always a subset of the target set the caller supplied; empty means denied.
type AuthzResult struct {
	MatchedContactIDs []string `json:"matched_contact_ids"`
}

// Authorized reports whether any target contact matched the claim.
func (r AuthzResult) Authorized() bool {
	return len(r.MatchedContactIDs) > 0
}

// AssociatedResult is the reveal payload: the contacts a claim resolved to
// and every business and property linked to any of them. ContactIDs on the
// views are pre-filtered to the matched set.
type AssociatedResult struct {
	ContactIDs []string              `json:"contact_ids"`
	Businesses []domain.BusinessView `json:"businesses"`
	Properties []domain.PropertyView `json:"properties"`
}

// Service authorizes reveals against the registry.
type Service struct {
	clients registry.ClientFactory
	logger  *slog.Logger
	metrics *Metrics
}

func New(clients registry.ClientFactory, logger *slog.Logger, metrics *Metrics) *Service {
	return &Service{clients: clients, logger: logger, metrics: metrics}
}

// Authorize matches a claim against the registry and intersects the result
// with targetContactIDs. All-or-nothing per contact, no scoring: a contact
// is either in the matched set or it is not.
func (s *Service) Authorize(ctx context.Context, communityID string, claim domain.IdentityClaim, targetContactIDs []string) (AuthzResult, error) {
	client, err := s.clients.ForCommunity(ctx, communityID)
	if err != nil {
		return AuthzResult{}, err
	}

	matched, err := s.matchClaim(ctx, client, claim)
	if err != nil {
		return AuthzResult{}, err
	}

	matchedSet := make(map[string]struct{}, len(matched))
	for _, rec := range matched {
		matchedSet[rec.ID()] = struct{}{}
	}

	authorized := make([]string, 0, len(targetContactIDs))
	for _, id := range identity.DedupeIDs(targetContactIDs) {
		if _, ok := matchedSet[id]; ok {
			authorized = append(authorized, id)
		}
	}

	s.metrics.incrementDecision(len(authorized) > 0)
	s.logger.DebugContext(ctx, "reveal decision",
		"community_id", communityID,
		"claim_kind", claim.Kind,
		"authorized", len(authorized) > 0,
		"matched", len(authorized),
	)
	return AuthzResult{MatchedContactIDs: authorized}, nil
}

// SearchAssociated resolves the claim fields to a contact set and returns
// everything linked to it. Email and phone are matched independently and
// unioned; the linked businesses and properties come from the two-step
// batch-then-broad registry lookup.
func (s *Service) SearchAssociated(ctx context.Context, communityID, email, phone string) (AssociatedResult, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return AssociatedResult{}, dErrors.New(dErrors.CodeBadRequest, "email or phone is required")
	}

	client, err := s.clients.ForCommunity(ctx, communityID)
	if err != nil {
		return AssociatedResult{}, err
	}

	var contacts []registry.Record
	if email != "" {
		recs, err := s.matchClaim(ctx, client, domain.IdentityClaim{Kind: domain.ClaimEmail, Value: email})
		if err != nil {
			return AssociatedResult{}, err
		}
		contacts = append(contacts, recs...)
	}
	if phone != "" {
		recs, err := s.matchClaim(ctx, client, domain.IdentityClaim{Kind: domain.ClaimPhone, Value: phone})
		if err != nil {
			return AssociatedResult{}, err
		}
		contacts = append(contacts, recs...)
	}

	contacts = dedupeRecords(contacts)
	s.metrics.incrementDecision(len(contacts) > 0)
	if len(contacts) == 0 {
		return AssociatedResult{
			ContactIDs: []string{},
			Businesses: []domain.BusinessView{},
			Properties: []domain.PropertyView{},
		}, nil
	}

	contactIDs := make([]string, len(contacts))
	for i, rec := range contacts {
		contactIDs[i] = rec.ID()
	}
	matchedSet := make(map[string]struct{}, len(contactIDs))
	for _, id := range contactIDs {
		matchedSet[id] = struct{}{}
	}

	broad := broadQueryFor(contacts[0])

	businesses, err := registry.FindByContactIDs(ctx, client, registry.KindBusiness, contactIDs, broad)
	if err != nil {
		return AssociatedResult{}, err
	}
	properties, err := registry.FindByContactIDs(ctx, client, registry.KindProperty, contactIDs, broad)
	if err != nil {
		return AssociatedResult{}, err
	}

	out := AssociatedResult{
		ContactIDs: contactIDs,
		Businesses: make([]domain.BusinessView, 0, len(businesses)),
		Properties: make([]domain.PropertyView, 0, len(properties)),
	}
	for _, rec := range businesses {
		out.Businesses = append(out.Businesses, businessView(rec, matchedSet))
	}
	for _, rec := range properties {
		out.Properties = append(out.Properties, propertyView(rec, matchedSet))
	}
	return out, nil
}

// SearchBusinesses returns disclosure-safe business views for a free-text
// query. ContactIDs are stripped entirely; this path proves no claim.
func (s *Service) SearchBusinesses(ctx context.Context, communityID, query string) ([]domain.BusinessView, error) {
	recs, err := s.searchKind(ctx, communityID, registry.KindBusiness, query)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BusinessView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, businessView(rec, nil))
	}
	return out, nil
}

// SearchProperties returns disclosure-safe property views for a free-text
// query.
func (s *Service) SearchProperties(ctx context.Context, communityID, query string) ([]domain.PropertyView, error) {
	recs, err := s.searchKind(ctx, communityID, registry.KindProperty, query)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PropertyView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, propertyView(rec, nil))
	}
	return out, nil
}

func (s *Service) searchKind(ctx context.Context, communityID string, kind registry.Kind, query string) ([]registry.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "search query is required")
	}
	client, err := s.clients.ForCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return client.Search(ctx, kind, query)
}

// matchClaim turns a claim into the set of registry contacts it proves. An
// email claim is one search; a phone claim is one search per candidate key,
// unioned, so formatted and partial numbers still match on a digit suffix.
func (s *Service) matchClaim(ctx context.Context, client registry.Client, claim domain.IdentityClaim) ([]registry.Record, error) {
	var queries []string
	switch claim.Kind {
	case domain.ClaimEmail:
		if v := strings.TrimSpace(claim.Value); v != "" {
			queries = []string{v}
		}
	case domain.ClaimPhone:
		queries = identity.PhoneCandidateKeys(claim.Value)
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown claim kind: "+string(claim.Kind))
	}
	if len(queries) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "claim value is required")
	}

	var union []registry.Record
	for _, q := range queries {
		recs, err := client.Search(ctx, registry.KindContact, q)
		if err != nil {
			return nil, err
		}
		union = append(union, recs...)
	}
	return dedupeRecords(union), nil
}

// broadQueryFor picks the fallback free-text query for batch-unsupported
// registries: the representative contact's email, or its name when no email
// is on record.
func broadQueryFor(rec registry.Record) string {
	if email := rec.Str("email"); email != "" {
		return email
	}
	return rec.Str("name")
}

func dedupeRecords(recs []registry.Record) []registry.Record {
	seen := make(map[string]struct{}, len(recs))
	out := make([]registry.Record, 0, len(recs))
	for _, rec := range recs {
		id := rec.ID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// businessView projects a registry record to its safe view. allowed filters
// contact_ids to ids the caller proved a claim against; nil strips them.
func businessView(rec registry.Record, allowed map[string]struct{}) domain.BusinessView {
	return domain.BusinessView{
		ID:         rec.ID(),
		Name:       rec.Str("name"),
		Address:    rec.Str("address"),
		URL:        rec.Str("url"),
		Email:      rec.Str("email"),
		Phone:      rec.Str("phone"),
		ContactIDs: filterIDs(rec.StrList("contact_ids"), allowed),
	}
}

func propertyView(rec registry.Record, allowed map[string]struct{}) domain.PropertyView {
	return domain.PropertyView{
		ID:         rec.ID(),
		Address:    rec.Str("address"),
		BBL:        rec.Str("bbl"),
		ContactIDs: filterIDs(rec.StrList("contact_ids"), allowed),
	}
}

func filterIDs(ids []string, allowed map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := allowed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
