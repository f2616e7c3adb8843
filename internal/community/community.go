// Package community loads per-community portal configuration: the registry
// API key used on behalf of the community and the member allowlist backing
// the access gate.
package community

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/kv"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// Config is one community's portal configuration.
type Config struct {
	RegistryAPIKey string   `json:"registry_api_key"`
	Members        []string `json:"members"`
}

// Source resolves a community id to its config. Unknown communities yield a
// not-found domain error.
type Source interface {
	Lookup(ctx context.Context, communityID string) (Config, error)
}

// StaticSource serves communities from a fixed map, typically parsed from
// the PORTAL_COMMUNITIES environment JSON.
type StaticSource struct {
	communities map[string]Config
}

// ParseStatic builds a StaticSource from inline JSON ({"<id>": {...}, ...}).
// Empty input yields a source that knows no communities.
func ParseStatic(raw string) (*StaticSource, error) {
	communities := map[string]Config{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &communities); err != nil {
			return nil, fmt.Errorf("parse communities JSON: %w", err)
		}
	}
	return &StaticSource{communities: communities}, nil
}

func (s *StaticSource) Lookup(_ context.Context, communityID string) (Config, error) {
	cfg, ok := s.communities[communityID]
	if !ok {
		return Config{}, dErrors.New(dErrors.CodeNotFound, "community not configured")
	}
	return cfg, nil
}

const kvKeyPrefix = "community:"

// KVSource reads community config from the shared key-value store with a
// fallback source for communities not yet migrated there. A nil store always
// defers to the fallback.
type KVSource struct {
	store    kv.Store
	fallback Source
}

func NewKVSource(store kv.Store, fallback Source) *KVSource {
	return &KVSource{store: store, fallback: fallback}
}

func (s *KVSource) Lookup(ctx context.Context, communityID string) (Config, error) {
	if s.store == nil {
		return s.fallback.Lookup(ctx, communityID)
	}
	raw, ok, err := s.store.Get(ctx, kvKeyPrefix+communityID)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return s.fallback.Lookup(ctx, communityID)
	}
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return Config{}, dErrors.Wrap(err, dErrors.CodeCorruptRecord, "community config failed to parse")
	}
	return cfg, nil
}

// Gate answers the per-community membership question for authenticated
// callers. Membership is an explicit email allowlist; an empty list admits
// nobody.
type Gate struct {
	source Source
}

func NewGate(source Source) *Gate {
	return &Gate{source: source}
}

// HasAccess reports whether email belongs to the community's allowlist.
// Emails compare case-insensitively after trimming. An unknown community is
// an error, not a silent deny, so callers can map it to 404 instead of 403.
func (g *Gate) HasAccess(ctx context.Context, email, communityID string) (bool, error) {
	cfg, err := g.source.Lookup(ctx, communityID)
	if err != nil {
		return false, err
	}
	needle := strings.ToLower(strings.TrimSpace(email))
	if needle == "" {
		return false, nil
	}
	for _, member := range cfg.Members {
		if strings.ToLower(strings.TrimSpace(member)) == needle {
			return true, nil
		}
	}
	return false, nil
}
