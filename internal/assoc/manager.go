// Package assoc maintains the derived association index: which businesses
// and properties a contact has been linked to, and the reverse. The index
// lives in the deployment's key-value store so reverse lookups never scan
// the registry; it is eventually consistent by construction, not a system
// of record.
package assoc

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/domain"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/kv"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
	"github.com/citiesense/ginkgo-stakeholder-portal/pkg/identity"
)

const (
	keyPrefixContact  = "assoc:contact:"
	keyPrefixBusiness = "assoc:business:"
	keyPrefixProperty = "assoc:property:"
)

var linksWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "portal_association_links_total",
	Help: "Association links written, by linked entity kind",
}, []string{"kind"})

// LinkOpts names the entities a contact is being linked to. Either or both
// may be set; unset ids leave the corresponding documents untouched.
type LinkOpts struct {
	BusinessID string
	PropertyID string
}

// memberDoc is the reverse document stored per business/property.
type memberDoc struct {
	Contacts []string `json:"contacts"`
}

// Manager performs the read-modify-write cycles against the store. The
// cycles are not atomic as a group and carry no per-key locking: two
// concurrent links to the same id can lose one writer's update. Accepted for
// the portal's write volume; see the project design notes.
type Manager struct {
	store  kv.Store
	logger *slog.Logger
}

// New builds a Manager. A nil store is valid and degrades Link to a no-op
// and LinksFor to the empty default.
func New(store kv.Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Link records contact↔business and contact↔property associations: up to
// three independent read-modify-write cycles, one per touched document.
func (m *Manager) Link(ctx context.Context, contactID string, opts LinkOpts) error {
	if m.store == nil {
		return nil
	}
	if contactID == "" || (opts.BusinessID == "" && opts.PropertyID == "") {
		return nil
	}

	links, err := m.readLinks(ctx, keyPrefixContact+contactID)
	if err != nil {
		return err
	}
	if opts.BusinessID != "" {
		links.Businesses = identity.DedupeIDs(append(links.Businesses, opts.BusinessID))
	}
	if opts.PropertyID != "" {
		links.Properties = identity.DedupeIDs(append(links.Properties, opts.PropertyID))
	}
	if err := m.writeJSON(ctx, keyPrefixContact+contactID, links); err != nil {
		return err
	}

	if opts.BusinessID != "" {
		if err := m.appendMember(ctx, keyPrefixBusiness+opts.BusinessID, contactID); err != nil {
			return err
		}
		linksWritten.WithLabelValues("business").Inc()
	}
	if opts.PropertyID != "" {
		if err := m.appendMember(ctx, keyPrefixProperty+opts.PropertyID, contactID); err != nil {
			return err
		}
		linksWritten.WithLabelValues("property").Inc()
	}

	m.logger.DebugContext(ctx, "association linked",
		"contact_id", contactID,
		"business_id", opts.BusinessID,
		"property_id", opts.PropertyID,
	)
	return nil
}

// LinksFor returns the stored association document for a contact, or the
// empty default when no record exists or no store is configured. It never
// contacts the registry.
func (m *Manager) LinksFor(ctx context.Context, contactID string) (domain.AssociationLinks, error) {
	if m.store == nil {
		return domain.EmptyAssociationLinks(), nil
	}
	return m.readLinks(ctx, keyPrefixContact+contactID)
}

func (m *Manager) readLinks(ctx context.Context, key string) (domain.AssociationLinks, error) {
	links := domain.EmptyAssociationLinks()
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return links, err
	}
	if !ok {
		return links, nil
	}
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		// A present-but-unreadable document means data loss somewhere;
		// resetting it silently would mask that.
		return domain.EmptyAssociationLinks(), dErrors.Wrap(err, dErrors.CodeCorruptRecord, "association document failed to parse")
	}
	if links.Businesses == nil {
		links.Businesses = []string{}
	}
	if links.Properties == nil {
		links.Properties = []string{}
	}
	return links, nil
}

func (m *Manager) readMembers(ctx context.Context, key string) (memberDoc, error) {
	doc := memberDoc{Contacts: []string{}}
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return doc, err
	}
	if !ok {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return memberDoc{Contacts: []string{}}, dErrors.Wrap(err, dErrors.CodeCorruptRecord, "association document failed to parse")
	}
	if doc.Contacts == nil {
		doc.Contacts = []string{}
	}
	return doc, nil
}

func (m *Manager) appendMember(ctx context.Context, key, contactID string) error {
	doc, err := m.readMembers(ctx, key)
	if err != nil {
		return err
	}
	doc.Contacts = identity.DedupeIDs(append(doc.Contacts, contactID))
	return m.writeJSON(ctx, key, doc)
}

func (m *Manager) writeJSON(ctx context.Context, key string, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode association document")
	}
	return m.store.Set(ctx, key, string(buf))
}
