// Package kv defines the key-value boundary behind the association index and
// community config. The store is supplied by the deployment environment and
// may be absent entirely; consumers hold a nil Store in that case and degrade
// to no-ops rather than failing.
package kv

import "context"

// Store is a minimal get/set surface over opaque string documents. Get
// reports absence via ok=false with a nil error; runtime failures are
// returned as errors and are distinct from absence.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
