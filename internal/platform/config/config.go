package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// RegistryBaseURL is the Ginkgo API base; per-community paths are
	// appended by the registry client.
	RegistryBaseURL string

	// CommunitiesJSON is an inline JSON map of community id to community
	// config, used when no KV-backed config exists for a community.
	CommunitiesJSON string

	Redis       RedisConfig
	PostgresDSN string

	// KafkaBrokers enables the audit mirror when non-empty.
	KafkaBrokers string
	AuditTopic   string
}

// RedisConfig holds connection settings for the association store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PORTAL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	registryBase := os.Getenv("GINKGO_API_BASE")
	if registryBase == "" {
		registryBase = "https://api.ginkgo.city"
	}

	auditTopic := os.Getenv("PORTAL_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "portal.audit"
	}

	return Server{
		Addr:            addr,
		JWTSigningKey:   jwtSigningKey,
		RegistryBaseURL: registryBase,
		CommunitiesJSON: os.Getenv("PORTAL_COMMUNITIES"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		AuditTopic:   auditTopic,
	}
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
