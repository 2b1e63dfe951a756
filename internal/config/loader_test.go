package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/frcscout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
				convey.So(cfg.Season, convey.ShouldEqual, 2025)
				convey.So(cfg.TBAAuthKey, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FRCSCOUT_ADDR", ":8080")
			_ = os.Setenv("FRCSCOUT_SEASON", "2024")
			_ = os.Setenv("FRCSCOUT_UPSTREAM_TIMEOUT_MS", "1500")
			_ = os.Setenv("FRCSCOUT_UPSTREAM_RPS", "2.5")
			_ = os.Setenv("FRCSCOUT_STORE_BACKEND", "memory")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Season, convey.ShouldEqual, 2024)
				convey.So(cfg.UpstreamTimeoutMS, convey.ShouldEqual, 1500)
				convey.So(cfg.UpstreamRPS, convey.ShouldEqual, 2.5)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendMemory)
			})
		})

		convey.Convey("When only the legacy TBA_AUTH_KEY is set", func() {
			_ = os.Setenv("TBA_AUTH_KEY", "legacy-key")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills tba_auth_key", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TBAAuthKey, convey.ShouldEqual, "legacy-key")
			})

			convey.Convey("And the prefixed key wins when both are set", func() {
				_ = os.Setenv("FRCSCOUT_TBA_AUTH_KEY", "prefixed-key")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TBAAuthKey, convey.ShouldEqual, "prefixed-key")
			})
		})

		convey.Convey("When loading config with a YAML file and env overrides", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
season: 2023
store_backend: redis
redis_addr: "cache:6379"
notes_file: notes.json
`)
			_ = os.Setenv("FRCSCOUT_CONFIG", tmpFile)
			_ = os.Setenv("FRCSCOUT_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Season, convey.ShouldEqual, 2023)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendRedis)
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "cache:6379")
				convey.So(cfg.NotesFile, convey.ShouldEqual, "notes.json")
				convey.So(cfg.FavoritesFile, convey.ShouldEqual, "favorites.json")
			})
		})

		convey.Convey("When a dotenv file provides the auth key", func() {
			dir := t.TempDir()
			envFile := filepath.Join(dir, "scout.env")
			convey.So(os.WriteFile(envFile, []byte("TBA_AUTH_KEY=from-dotenv\nFRCSCOUT_SEASON=2022\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ENV_FILE", envFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then values from the file are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TBAAuthKey, convey.ShouldEqual, "from-dotenv")
				convey.So(cfg.Season, convey.ShouldEqual, 2022)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("FRCSCOUT_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FRCSCOUT_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid values", func() {
			cases := map[string][2]string{
				"empty addr":      {"FRCSCOUT_ADDR", ""},
				"season too old":  {"FRCSCOUT_SEASON", "1980"},
				"zero timeout":    {"FRCSCOUT_UPSTREAM_TIMEOUT_MS", "0"},
				"unknown backend": {"FRCSCOUT_STORE_BACKEND", "postgres"},
				"not a number":    {"FRCSCOUT_SEASON", "soon"},
			}
			for name, kv := range cases {
				clearConfigEnvVars()
				_ = os.Setenv(kv[0], kv[1])

				cfg, err := config.Load(ctx)

				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
				if name != "not a number" {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				}
			}
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ENV_FILE",
		"TBA_AUTH_KEY",
		"FRCSCOUT_CONFIG",
		"FRCSCOUT_ADDR",
		"FRCSCOUT_SEASON",
		"FRCSCOUT_TBA_AUTH_KEY",
		"FRCSCOUT_UPSTREAM_TIMEOUT_MS",
		"FRCSCOUT_UPSTREAM_RPS",
		"FRCSCOUT_STORE_BACKEND",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frcscout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigErrorMessages(t *testing.T) {
	convey.Convey("Given settings that fail", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("An invalid backend names the package and the setting", func() {
			_ = os.Setenv("FRCSCOUT_STORE_BACKEND", "postgres")
			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldStartWith, "frcscout config: invalid setting")
			convey.So(err.Error(), convey.ShouldContainSubstring, `"postgres"`)
		})

		convey.Convey("An unreadable YAML layer names the package", func() {
			_ = os.Setenv("FRCSCOUT_CONFIG", "/non/existent/file.yaml")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldStartWith, "frcscout config: cannot read layer")
		})
	})
}
