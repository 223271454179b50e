// Package config provides environment-driven configuration for the promiscuity server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL Secret
	Port        string
	MetricsPort string
	ListenHost  string
	CORSOrigins []string
	LogLevel    string
	DBMaxConns  int

	// Search limits.
	MaxHops           int
	MaxPaths          int
	SearchTimeout     time.Duration
	SearchMaxDequeues int

	// Result cache; a size of 0 disables it.
	ResultCacheSize int
	ResultCacheTTL  time.Duration

	// Per-IP request rate.
	RateLimit float64
	RateBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: Secret(envOrDefault("DATABASE_URL", "")),
		Port:        envOrDefault("PORT", "3030"),
		MetricsPort: envOrDefault("METRICS_PORT", "9091"),
		ListenHost:  envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
	}

	ints := []struct {
		key      string
		fallback string
		lo, hi   int
		dst      *int
	}{
		{"DB_MAX_CONNS", "21", 2, 200, &cfg.DBMaxConns},
		{"MAX_HOPS", "8", 1, 32, &cfg.MaxHops},
		{"MAX_PATHS", "1000", 1, 10000, &cfg.MaxPaths},
		{"SEARCH_MAX_DEQUEUES", "5000000", 0, 1_000_000_000, &cfg.SearchMaxDequeues},
		{"RESULT_CACHE_SIZE", "1024", 0, 1_000_000, &cfg.ResultCacheSize},
		{"RATE_BURST", "200", 1, 100_000, &cfg.RateBurst},
	}

	for _, v := range ints {
		n, err := strconv.Atoi(envOrDefault(v.key, v.fallback))
		if err != nil || n < v.lo || n > v.hi {
			return nil, fmt.Errorf("%s must be an integer between %d and %d", v.key, v.lo, v.hi)
		}
		*v.dst = n
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"SEARCH_TIMEOUT", "30s", &cfg.SearchTimeout},
		{"RESULT_CACHE_TTL", "5m", &cfg.ResultCacheTTL},
	}

	for _, v := range durations {
		d, err := time.ParseDuration(envOrDefault(v.key, v.fallback))
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration such as 30s or 5m", v.key)
		}
		*v.dst = d
	}

	rl, err := strconv.ParseFloat(envOrDefault("RATE_LIMIT", "100"), 64)
	if err != nil || rl < 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be a non-negative number of requests per second (0 disables)")
	}
	cfg.RateLimit = rl

	if origins := envOrDefault("CORS_ORIGINS", ""); origins != "" {
		for o := range strings.SplitSeq(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
