package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/okian/frcscout/internal/adapters/http/api"
	service "github.com/okian/frcscout/internal/app"
	"github.com/okian/frcscout/internal/config"
	"github.com/okian/frcscout/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func memoryConfig() *config.Config {
	cfg := config.New()
	cfg.StoreBackend = config.BackendMemory
	// Unroutable upstreams; these tests never reach a team lookup.
	cfg.TBABaseURL = "http://127.0.0.1:1"
	cfg.StatboticsBaseURL = "http://127.0.0.1:1"
	return cfg
}

func postAsk(h http.Handler, text string) (int, string) {
	body, _ := json.Marshal(map[string]string{"team_number": text})
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var resp struct {
		Reply string `json:"reply"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp.Reply
}

func TestConfigLoading(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		_ = os.Setenv("FRCSCOUT_ADDR", ":8080")
		_ = os.Setenv("FRCSCOUT_STORE_BACKEND", "memory")
		defer func() {
			_ = os.Unsetenv("FRCSCOUT_ADDR")
			_ = os.Unsetenv("FRCSCOUT_STORE_BACKEND")
		}()

		convey.Convey("Then configuration should be loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendMemory)
		})
	})

	convey.Convey("Given an empty listen address", t, func() {
		_ = os.Setenv("FRCSCOUT_ADDR", " ")
		defer func() { _ = os.Unsetenv("FRCSCOUT_ADDR") }()

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestBuild(t *testing.T) {
	convey.Convey("Given a memory-backed configuration", t, func() {
		ctx := context.Background()
		app, err := build(memoryConfig(), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer app.close()
		convey.So(app.svc.Start(ctx), convey.ShouldBeNil)
		defer app.svc.Stop()

		h := app.routes(ctx)

		convey.Convey("Then /ask answers chat commands with 200", func() {
			code, reply := postAsk(h, "")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
			convey.So(reply, convey.ShouldEqual, service.PromptReply)

			_, reply = postAsk(h, "favorite 1507")
			convey.So(reply, convey.ShouldContainSubstring, "1507")
			_, reply = postAsk(h, "list favorites")
			convey.So(reply, convey.ShouldContainSubstring, "1507")
		})

		convey.Convey("And the chat page, docs and metrics are mounted", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("And responses carry a request id", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
			convey.So(w.Header().Get("X-Request-ID"), convey.ShouldNotBeEmpty)
		})
	})

	convey.Convey("Given a file-backed configuration", t, func() {
		dir := t.TempDir()
		cfg := memoryConfig()
		cfg.StoreBackend = config.BackendFile
		cfg.NotesFile = filepath.Join(dir, "team_notes.json")
		cfg.FavoritesFile = filepath.Join(dir, "favorites.json")

		app, err := build(cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer app.close()

		convey.Convey("Then starting the service creates empty snapshots", func() {
			convey.So(app.svc.Start(context.Background()), convey.ShouldBeNil)
			defer app.svc.Stop()

			data, err := os.ReadFile(cfg.NotesFile)
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.TrimSpace(string(data)), convey.ShouldEqual, "{}")
			data, err = os.ReadFile(cfg.FavoritesFile)
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.TrimSpace(string(data)), convey.ShouldEqual, "[]")
		})
	})

	convey.Convey("Given a redis-backed configuration", t, func() {
		mr := miniredis.RunT(t)
		cfg := memoryConfig()
		cfg.StoreBackend = config.BackendRedis
		cfg.RedisAddr = mr.Addr()

		app, err := build(cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer app.close()
		convey.So(app.svc.Start(context.Background()), convey.ShouldBeNil)
		defer app.svc.Stop()

		convey.Convey("Then notes land under the configured key prefix", func() {
			_, reply := postAsk(app.routes(context.Background()), "1507 note: fast cycles")
			convey.So(reply, convey.ShouldContainSubstring, "1507")

			stored, err := mr.Get(cfg.RedisKeyPrefix + notesSnapshot)
			convey.So(err, convey.ShouldBeNil)
			convey.So(stored, convey.ShouldContainSubstring, "fast cycles")
			convey.So(mr.Exists(cfg.RedisKeyPrefix+favoritesSnapshot), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given an unknown store backend", t, func() {
		cfg := memoryConfig()
		cfg.StoreBackend = "s3"

		convey.Convey("Then build fails", func() {
			app, err := build(cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(app, convey.ShouldBeNil)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		convey.Convey("Then system metrics update without panicking", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the updater loops stop with their context", func() {
			app, err := build(memoryConfig(), logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			convey.So(app.svc.Start(context.Background()), convey.ShouldBeNil)
			defer app.svc.Stop()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, app.svc)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("metrics updaters did not stop")
			}
			convey.So(func() { updateServiceMetrics(context.Background(), app.svc) }, convey.ShouldNotPanic)
		})
	})
}

// panickingAsker stands in for a dispatcher whose recovery failed.
type panickingAsker struct{}

func (panickingAsker) Ask(context.Context, string) string { panic("boom") }

func (panickingAsker) GetStats(context.Context) map[string]interface{} { return nil }

func TestAskPanicUsesDispatcherApology(t *testing.T) {
	convey.Convey("Given the API configured the way main wires it", t, func() {
		server := api.NewServer(panickingAsker{}, panickingAsker{}, apiOptions(logger.Nop())...)
		mux := http.NewServeMux()
		server.Register(mux)

		convey.Convey("Then a panicking dispatcher still gets the dispatcher's apology with 200", func() {
			code, reply := postAsk(server.Wrap(mux), "1507")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
			convey.So(reply, convey.ShouldEqual, service.InternalErrorReply)
		})
	})
}
