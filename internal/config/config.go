// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Backend and policy names accepted by the config.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	PolicyAlways     = "always"
	PolicyMutualLike = "mutual_like"

	DivisorFixed     = "fixed"
	DivisorEvaluated = "evaluated"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ProfileStore selects the profile backend: memory or postgres.
	ProfileStore   string `koanf:"profile_store"`
	DatabaseURL    string `koanf:"database_url"`
	MigrateOnStart bool   `koanf:"migrate_on_start"`

	// LikesStore selects the likes backend: memory or redis.
	LikesStore string `koanf:"likes_store"`
	RedisAddr  string `koanf:"redis_addr"`

	// NATSURL enables publishing match events. Empty logs them instead.
	NATSURL string `koanf:"nats_url"`

	// MatchPolicy decides isMatch: always or mutual_like.
	MatchPolicy string `koanf:"match_policy"`

	// ScoreDivisor is fixed or evaluated.
	ScoreDivisor string `koanf:"score_divisor"`

	// ClustersFile optionally replaces the built-in keyword clusters.
	ClustersFile string `koanf:"clusters_file"`

	// InsightsURL enables recommendation-backed date ideas.
	InsightsURL       string `koanf:"insights_url"`
	InsightsAPIKey    string `koanf:"insights_api_key"`
	InsightsTimeoutMS int    `koanf:"insights_timeout_ms"`

	// AuthURL is the identity provider. Empty accepts UUID tokens as-is.
	AuthURL    string `koanf:"auth_url"`
	AuthAPIKey string `koanf:"auth_api_key"`

	// EventQueueSize bounds the in-memory match event queue.
	EventQueueSize int `koanf:"event_queue_size"`

	// WorkerCount sets the number of event delivery workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxProfilesLimit caps GET /api/profiles?limit.
	MaxProfilesLimit int `koanf:"max_profiles_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		ProfileStore:      StoreMemory,
		LikesStore:        StoreMemory,
		MatchPolicy:       PolicyAlways,
		ScoreDivisor:      DivisorFixed,
		InsightsTimeoutMS: 10_000,
		EventQueueSize:    10_000,
		WorkerCount:       runtime.NumCPU(),
		MaxProfilesLimit:  50,
	}
}

// InsightsTimeout returns the insights timeout as a duration.
func (c *Config) InsightsTimeout() time.Duration {
	return time.Duration(c.InsightsTimeoutMS) * time.Millisecond
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case !oneOf(c.LogFormat, "text", "json"):
		return invalid("log_format %q", c.LogFormat)
	case !oneOf(c.ProfileStore, StoreMemory, StorePostgres):
		return invalid("profile_store %q", c.ProfileStore)
	case c.ProfileStore == StorePostgres && c.DatabaseURL == "":
		return invalid("database_url is required for the postgres profile store")
	case !oneOf(c.LikesStore, StoreMemory, StoreRedis):
		return invalid("likes_store %q", c.LikesStore)
	case c.LikesStore == StoreRedis && c.RedisAddr == "":
		return invalid("redis_addr is required for the redis likes store")
	case !oneOf(c.MatchPolicy, PolicyAlways, PolicyMutualLike):
		return invalid("match_policy %q", c.MatchPolicy)
	case !oneOf(c.ScoreDivisor, DivisorFixed, DivisorEvaluated):
		return invalid("score_divisor %q", c.ScoreDivisor)
	case c.InsightsURL != "" && c.InsightsAPIKey == "":
		return invalid("insights_api_key is required with insights_url")
	case c.InsightsTimeoutMS <= 0:
		return invalid("insights_timeout_ms must be positive")
	case c.EventQueueSize <= 0:
		return invalid("event_queue_size must be positive")
	case c.WorkerCount <= 0:
		return invalid("worker_count must be positive")
	case c.MaxProfilesLimit <= 0:
		return invalid("max_profiles_limit must be positive")
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
