package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names read outside the FRCSCOUT_ prefix mapping.
const (
	envPrefix     = "FRCSCOUT_"
	envConfigFile = "FRCSCOUT_CONFIG"
	envEnvFile    = "ENV_FILE"
	envLegacyKey  = "TBA_AUTH_KEY"

	minSeason = 1992
	maxSeason = 2100
)

// Load builds a Config by layering defaults, .env files, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env files: ENV_FILE if set, else .env.local then .env (never override the real environment)
//  3. file (YAML) if FRCSCOUT_CONFIG is set
//  4. env (prefix FRCSCOUT_), with TBA_AUTH_KEY as a fallback for tba_auth_key
func Load(_ context.Context) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// FRCSCOUT_UPSTREAM_TIMEOUT_MS -> upstream_timeout_ms (flat keys, underscores preserved).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.TBAAuthKey == "" {
		cfg.TBAAuthKey = os.Getenv(envLegacyKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles populates the process environment from dotenv files.
// Missing files are ignored.
func loadEnvFiles() error {
	if envFile := os.Getenv(envEnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Season < minSeason || c.Season > maxSeason:
		return fmt.Errorf("%w: season %d out of range", ErrInvalidConfig, c.Season)
	case c.UpstreamTimeoutMS <= 0:
		return fmt.Errorf("%w: upstream_timeout_ms must be positive", ErrInvalidConfig)
	case c.TBABaseURL == "" || c.StatboticsBaseURL == "":
		return fmt.Errorf("%w: upstream base urls must not be empty", ErrInvalidConfig)
	}
	switch c.StoreBackend {
	case BackendFile:
		if c.NotesFile == "" || c.FavoritesFile == "" {
			return fmt.Errorf("%w: notes_file and favorites_file are required for the file backend", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	return nil
}
