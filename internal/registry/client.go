// Package registry talks to the external community registry (Ginkgo): the
// system of record for contacts, businesses, properties, and events. The
// portal never owns this data; it searches, creates, and updates through this
// client and keeps its own derived association index elsewhere.
package registry

import (
	"context"
	"errors"
)

// Kind names a registry entity collection.
type Kind string

const (
	KindContact  Kind = "contacts"
	KindBusiness Kind = "businesses"
	KindProperty Kind = "properties"
	KindEvent    Kind = "events"
)

// Record is a loosely typed registry document. The registry's schemas drift
// per community, so the client stays schemaless and callers pick fields out
// with the accessors below.
type Record map[string]any

// ID returns the registry-assigned id, string-coerced.
func (r Record) ID() string {
	return r.Str("id")
}

// Str returns a string field, or "" when absent or not a string.
func (r Record) Str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// StrList returns a list field with elements string-coerced; non-string
// elements are skipped. JSON decoding yields []any, which is the usual case.
func (r Record) StrList(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		if direct, ok := r[key].([]string); ok {
			return direct
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ErrBatchUnsupported signals that the registry rejected a structured
// batch-by-ids query. Callers fall back to one broad free-text query filtered
// client-side; see FindByContactIDs. Kept as a bare sentinel so matching is
// by identity, never by domain error code.
var ErrBatchUnsupported = errors.New("registry does not support batch-by-id queries")

// Client is the registry surface consumed by the core. A Client is bound to
// one community; use a ClientFactory to obtain one per request.
type Client interface {
	// Search issues a single free-text query against one collection. An
	// empty result is not an error.
	Search(ctx context.Context, kind Kind, query string) ([]Record, error)

	// SearchByContactIDs filters a collection by linked contact ids. May
	// fail with ErrBatchUnsupported on registries without batch filtering.
	SearchByContactIDs(ctx context.Context, kind Kind, contactIDs []string) ([]Record, error)

	Get(ctx context.Context, kind Kind, id string) (Record, error)
	Create(ctx context.Context, kind Kind, fields map[string]any) (Record, error)
	Update(ctx context.Context, kind Kind, id string, fields map[string]any) (Record, error)

	// LogEvent appends an audit event to the registry's event stream.
	LogEvent(ctx context.Context, fields map[string]any) (Record, error)
}

// ClientFactory resolves a community to a bound Client. Unknown communities
// yield a not-found domain error.
type ClientFactory interface {
	ForCommunity(ctx context.Context, communityID string) (Client, error)
}
