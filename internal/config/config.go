// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL selects the PostgreSQL store when set. Empty keeps the
	// in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// IngestQueueSize bounds the in-memory health sample queue.
	IngestQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the sample deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the in-memory store.
	ShardCount int `koanf:"shard_count"`

	// MaxListLimit caps limit parameters on listing endpoints.
	MaxListLimit int `koanf:"max_list_limit"`

	// TrendWindowDays is the default lookback for assessment trends.
	TrendWindowDays int `koanf:"trend_window_days"`

	// HealthWindowDays is the default lookback for health reports.
	HealthWindowDays int `koanf:"health_window_days"`

	// BcryptCost controls password hashing cost.
	BcryptCost int `koanf:"bcrypt_cost"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		IngestQueueSize:  100_000,
		WorkerCount:      runtime.NumCPU() * 4,
		DedupeSize:       500_000,
		ShardCount:       8,
		MaxListLimit:     100,
		TrendWindowDays:  30,
		HealthWindowDays: 7,
		BcryptCost:       10,
	}
	return c
}
