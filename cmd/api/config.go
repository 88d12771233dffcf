package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/spinwallet/internal/config"
)

const (
	storeRedis  = "redis"
	storeMemory = "memory"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" default:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	LogFormat       string        `env:"APP_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"10s"`

	// EventsChannel is the redis pub/sub channel for wallet events. Events
	// are published only when the wagering store is redis; empty disables
	// publishing.
	EventsChannel string `env:"APP_EVENTS_CHANNEL" default:"wallet_events"`

	Postgres config.PostgresConfig
	Redis    config.RedisConfig
	Ledger   config.LedgerConfig
}

// needsRedis reports whether redis has to be reachable at startup. Only the
// wagering store decides; memory mode runs without redis.
func (c *apiConfig) needsRedis() bool {
	return c.Ledger.WageringStore == storeRedis
}

// publishEvents reports whether wallet events go out on redis pub/sub.
func (c *apiConfig) publishEvents() bool {
	return c.needsRedis() && c.EventsChannel != ""
}
