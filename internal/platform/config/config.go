package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresURL selects the postgres ledger store when set; the in-memory
	// store is used otherwise.
	PostgresURL string

	// RedisURL selects the redis role store and event sink when set.
	RedisURL string

	// AdminIdentities are the bootstrap identities allowed to grant roles.
	AdminIdentities []string

	// EventsChannel is the pub/sub channel notifications are published on.
	EventsChannel string

	RequestTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TRACELINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("TRACELINE_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	channel := os.Getenv("TRACELINE_EVENTS_CHANNEL")
	if channel == "" {
		channel = "traceline.events"
	}

	return Server{
		Addr:            addr,
		JWTSigningKey:   jwtSigningKey,
		PostgresURL:     os.Getenv("TRACELINE_POSTGRES_URL"),
		RedisURL:        os.Getenv("TRACELINE_REDIS_URL"),
		AdminIdentities: splitList(os.Getenv("TRACELINE_ADMIN_IDENTITIES")),
		EventsChannel:   channel,
		RequestTimeout:  30 * time.Second,
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
