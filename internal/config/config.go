// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, .env files, an optional YAML file and FRCSCOUT_* env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import "time"

// Store backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// Season is the competition year used for every upstream lookup.
	Season int `koanf:"season"`

	// TBABaseURL and TBAAuthKey address the competition-results provider.
	TBABaseURL string `koanf:"tba_base_url"`
	TBAAuthKey string `koanf:"tba_auth_key"`

	// StatboticsBaseURL addresses the performance-metrics provider.
	StatboticsBaseURL string `koanf:"statbotics_base_url"`

	// UpstreamTimeoutMS bounds every single upstream call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// UpstreamRPS and UpstreamBurst throttle calls per provider.
	UpstreamRPS   float64 `koanf:"upstream_rps"`
	UpstreamBurst int     `koanf:"upstream_burst"`

	// StoreBackend selects where notes and favorites live: file, redis or memory.
	StoreBackend string `koanf:"store_backend"`

	// NotesFile and FavoritesFile are used by the file backend.
	NotesFile     string `koanf:"notes_file"`
	FavoritesFile string `koanf:"favorites_file"`

	// Redis settings are used by the redis backend.
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":5000",
		Season:            2025,
		TBABaseURL:        "https://www.thebluealliance.com/api/v3",
		StatboticsBaseURL: "https://api.statbotics.io/v3",
		UpstreamTimeoutMS: 5000,
		UpstreamRPS:       10,
		UpstreamBurst:     20,
		StoreBackend:      BackendFile,
		NotesFile:         "team_notes.json",
		FavoritesFile:     "favorites.json",
		RedisAddr:         "localhost:6379",
		RedisKeyPrefix:    "frcscout:",
	}
}

// UpstreamTimeout returns the per-call upstream timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}
