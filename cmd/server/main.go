package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/assoc"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/audit"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/community"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/kv"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/config"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/httpserver"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/kafka"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/logger"
	platformredis "github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/redis"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/token"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/registry"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/resolver"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/reveal"
	httptransport "github.com/citiesense/ginkgo-stakeholder-portal/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Association store: Redis when configured, Postgres as the fallback,
	// nil otherwise. A nil store degrades linking to a no-op instead of
	// failing portal submissions.
	var store kv.Store
	var health func(context.Context) error

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	switch {
	case redisClient != nil:
		defer redisClient.Close()
		store = kv.NewRedis(redisClient.Client)
		health = redisClient.Health
		log.Info("association store: redis")
	case cfg.PostgresDSN != "":
		db, err := kv.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = kv.NewPostgres(db)
		health = db.PingContext
		log.Info("association store: postgres")
	default:
		log.Warn("no association store configured; linking is disabled")
	}

	staticCommunities, err := community.ParseStatic(cfg.CommunitiesJSON)
	if err != nil {
		log.Error("invalid community configuration", "error", err)
		os.Exit(1)
	}
	communities := community.NewKVSource(store, staticCommunities)
	gate := community.NewGate(communities)

	registryClients := registry.NewHTTPFactory(cfg.RegistryBaseURL, communities, nil)

	var publisher audit.Publisher
	if cfg.KafkaBrokers != "" {
		producer, err := kafka.NewProducer(kafka.DefaultConfig(cfg.KafkaBrokers), log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = producer
	}

	links := assoc.New(store, log)
	events := audit.NewEmitter(registryClients, publisher, cfg.AuditTopic, log)
	resolveSvc := resolver.New(registryClients, links, events, log, resolver.NewMetrics())
	revealSvc := reveal.New(registryClients, log, reveal.NewMetrics())

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Contacts:  httptransport.NewContactsHandler(resolveSvc, links, gate),
		Search:    httptransport.NewSearchHandler(revealSvc, gate),
		Events:    httptransport.NewEventsHandler(events, gate),
		Validator: token.NewService(cfg.JWTSigningKey),
		Logger:    log,
		Health:    health,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting stakeholder portal", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
