package kv

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

var kvOpDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "portal_kv_op_duration_ms",
	Help:    "Latency of association store operations in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
}, []string{"op"})

// Redis is the production Store for distributed deployments where multiple
// instances share association state.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an externally managed redis client. The client lifecycle
// stays with the caller.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	defer func() {
		kvOpDurationMs.WithLabelValues("get").Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, dErrors.Wrap(err, dErrors.CodeUnavailable, "redis get")
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	defer func() {
		kvOpDurationMs.WithLabelValues("set").Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "redis set")
	}
	return nil
}
