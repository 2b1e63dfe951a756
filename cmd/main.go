package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/frcscout/internal/adapters/http/api"
	"github.com/okian/frcscout/internal/adapters/http/site"
	"github.com/okian/frcscout/internal/adapters/http/swagger"
	"github.com/okian/frcscout/internal/adapters/repository"
	"github.com/okian/frcscout/internal/adapters/upstream"
	service "github.com/okian/frcscout/internal/app"
	"github.com/okian/frcscout/internal/config"
	"github.com/okian/frcscout/internal/domain/lookup"
	"github.com/okian/frcscout/internal/domain/notes"
	"github.com/okian/frcscout/pkg/logger"
	"github.com/okian/frcscout/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 15 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Snapshot names used as store metric labels and redis key suffixes.
const (
	notesSnapshot     = "notes"
	favoritesSnapshot = "favorites"
)

func main() {
	// Default Go collectors are replaced by the system metrics below.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not configured yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.TBAAuthKey == "" {
		loggerInstance.Warn(ctx, "no TBA auth key configured; team lookups will report not found")
	}

	app, err := build(cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		os.Exit(1)
	}
	defer app.close()

	if err := app.svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer app.svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, app.svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.routes(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// application holds the wired components behind the HTTP server.
type application struct {
	svc   *service.Service
	api   *api.Server
	redis *redis.Client
}

// build wires stores, upstream clients, the aggregator and the service from cfg.
func build(cfg *config.Config, log logger.Logger) (*application, error) {
	app := &application{}

	if cfg.StoreBackend == config.BackendRedis {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	// A nil *redis.Client must not reach repository.New as a non-nil interface.
	var client redis.Cmdable
	if app.redis != nil {
		client = app.redis
	}

	noteStore, err := repository.New(cfg.StoreBackend, repository.Target{
		Name:     notesSnapshot,
		FilePath: cfg.NotesFile,
		RedisKey: cfg.RedisKeyPrefix + notesSnapshot,
	}, client)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("notes store: %w", err)
	}
	favStore, err := repository.New(cfg.StoreBackend, repository.Target{
		Name:     favoritesSnapshot,
		FilePath: cfg.FavoritesFile,
		RedisKey: cfg.RedisKeyPrefix + favoritesSnapshot,
	}, client)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("favorites store: %w", err)
	}

	upstreamOpts := []upstream.Option{
		upstream.WithTimeout(cfg.UpstreamTimeout()),
		upstream.WithRateLimit(cfg.UpstreamRPS, cfg.UpstreamBurst),
		upstream.WithLogger(log.Named("upstream")),
	}
	tba := upstream.NewTBA(cfg.TBABaseURL, cfg.TBAAuthKey, upstreamOpts...)
	statbotics := upstream.NewStatbotics(cfg.StatboticsBaseURL, upstreamOpts...)

	scout := lookup.New(tba, statbotics,
		lookup.WithSeason(cfg.Season),
		lookup.WithCallTimeout(cfg.UpstreamTimeout()),
		lookup.WithLogger(log.Named("lookup")),
	)

	app.svc = service.New(scout,
		notes.NewNoteStore(noteStore, notes.WithLogger(log.Named("notes"))),
		notes.NewFavoriteStore(favStore, notes.WithLogger(log.Named("favorites"))),
		service.WithLogger(log),
		service.WithBackendName(cfg.StoreBackend),
	)
	app.api = api.NewServer(app.svc, app.svc, apiOptions(log)...)
	return app, nil
}

// apiOptions configures the HTTP layer to answer dispatcher panics with the
// dispatcher's own apology.
func apiOptions(log logger.Logger) []api.Option {
	return []api.Option{
		api.WithLogger(log.Named("http")),
		api.WithFallbackReply(service.InternalErrorReply),
	}
}

// routes mounts the API, the chat page and the docs on one mux.
func (a *application) routes(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	a.api.Register(mux)
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	return a.api.Wrap(mux)
}

func (a *application) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// startSystemMetricsUpdater periodically records runtime metrics until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater periodically refreshes store gauges until ctx ends.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics re-reads the snapshots so gauges follow writes made
// by other processes sharing a redis backend.
func updateServiceMetrics(ctx context.Context, svc *service.Service) {
	stats := svc.GetStats(ctx)

	teams, okTeams := stats["note_teams"].(int)
	count, okCount := stats["note_count"].(int)
	if okTeams && okCount {
		metrics.UpdateNoteCounts(teams, count)
	}

	if favorites, ok := stats["favorites"].(int); ok {
		metrics.UpdateFavoriteCount(favorites)
	}
}
