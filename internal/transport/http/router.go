package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/middleware"
	jsonwriter "github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http/json"
)

const requestTimeout = 30 * time.Second

// RouterConfig carries the wired handlers and cross-cutting dependencies.
// Health, when set, gates /healthz readiness on the association store.
type RouterConfig struct {
	Contacts  *ContactsHandler
	Search    *SearchHandler
	Events    *EventsHandler
	Validator middleware.TokenValidator
	Logger    *slog.Logger
	Health    func(ctx context.Context) error
}

// NewRouter wires all public endpoints. Every API route sits behind the
// bearer-token check and performs its own per-community membership check;
// only /healthz and /metrics are open.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", handleHealth(cfg.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		cfg.Contacts.Register(r)
		cfg.Search.Register(r)
		cfg.Events.Register(r)
	})
	return r
}

func handleHealth(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				jsonwriter.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		jsonwriter.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
