// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the directory HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations.
//  4. Connect to Redis when configured.
//  5. Open the blob store (filesystem or S3).
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// With -import the calendar import runs once and the process exits instead of serving.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/tcupboard/internal/api"
	"github.com/taibuivan/tcupboard/internal/core/act"
	"github.com/taibuivan/tcupboard/internal/core/asset"
	"github.com/taibuivan/tcupboard/internal/core/show"
	"github.com/taibuivan/tcupboard/internal/core/venue"
	"github.com/taibuivan/tcupboard/internal/ingest"
	"github.com/taibuivan/tcupboard/internal/platform/blob"
	"github.com/taibuivan/tcupboard/internal/platform/config"
	"github.com/taibuivan/tcupboard/internal/platform/constants"
	"github.com/taibuivan/tcupboard/internal/platform/metrics"
	"github.com/taibuivan/tcupboard/internal/platform/middleware"
	"github.com/taibuivan/tcupboard/internal/platform/migration"
	pgstore "github.com/taibuivan/tcupboard/internal/platform/postgres"
	redisstore "github.com/taibuivan/tcupboard/internal/platform/redis"
	"github.com/taibuivan/tcupboard/internal/platform/sec"
)

func main() {
	importOnce := flag.Bool("import", false, "run the venue calendar import once and exit")
	flag.Parse()

	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("redis", cfg.RedisEnabled()),
		slog.Bool("s3", cfg.S3Enabled()),
		slog.Bool("auth", cfg.AuthEnabled()),
	)

	// Root context for startup. A deadline surfaces misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	// The cache only accelerates name lookups, so an unreachable Redis is a warning.
	var rdb *goredis.Client
	if cfg.RedisEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		if err != nil {
			log.Warn("redis_unavailable_cache_disabled", slog.Any("error", err))
			rdb = nil
		} else {
			defer func() {
				log.Info("closing redis client")
				if cerr := rdb.Close(); cerr != nil {
					log.Error("redis close error", slog.Any("error", cerr))
				}
			}()
		}
	}

	// ── 5. Blob storage ───────────────────────────────────────────────────
	store, err := blob.Open(startupCtx, blob.Config{
		Root:            cfg.UploadDir,
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	must(log, err, "open blob store")
	log.Info("blob_store_opened", slog.String("driver", string(store.Driver())))

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	registry := metrics.New()

	assetService := asset.NewService(store, cfg.UploadBaseURL, log)

	actRepository := act.NewPostgresRepository(pool)
	nameLookup := act.NewCachedLookup(rdb, actRepository, cfg.NameIndexTTL, registry, log)
	actService := act.NewService(actRepository, act.Options{
		Images:      assetService,
		Index:       nameLookup,
		AssetPrefix: cfg.UploadBaseURL,
		Metrics:     registry,
	}, log)

	showService := show.NewService(
		show.NewPostgresRepository(pool),
		show.NewCrossReferencer(nameLookup, registry),
		actService,
		registry,
		log,
	)

	venueService := venue.NewService(venue.NewPostgresRepository(pool), log)

	importer := newImporter(cfg, showService, registry, log)

	if *importOnce {
		runImport(log, importer)
		return
	}

	// ── 7. Auth ───────────────────────────────────────────────────────────
	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled() {
		tokenVerifier, err := sec.LoadTokenVerifier(cfg.JWTPubKeyPath, cfg.JWTIssuer)
		must(log, err, "load token verifier")
		verifier = tokenVerifier
	} else {
		log.Warn("write_routes_unprotected", slog.String("reason", "JWT_PUBLIC_KEY_PATH not set"))
	}
	guard := middleware.NewGuard(cfg.AuthEnabled())

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	checks := []api.Check{{
		Name: "postgres",
		Run: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}}
	if rdb != nil {
		checks = append(checks, api.Check{
			Name:     "redis",
			Optional: true,
			Run: func(ctx context.Context) error {
				return redisstore.Ping(ctx, rdb)
			},
		})
	}
	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Acts:      act.NewHandler(actService, guard),
		Shows:     show.NewHandler(showService, guard),
		Venues:    venue.NewHandler(venueService, guard),
		Uploads:   asset.NewHandler(assetService, guard),
	}
	if importer != nil {
		handlers.Imports = ingest.NewHandler(importer, guard)
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, registry, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newImporter loads the calendar sources. A missing file disables imports.
func newImporter(cfg *config.Config, sink ingest.Sink, registry *metrics.Metrics, log *slog.Logger) *ingest.Importer {
	sources, err := ingest.LoadSources(cfg.ImportSourcesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("calendar_import_disabled", slog.String("path", cfg.ImportSourcesPath))
			return nil
		}
		must(log, err, "load import sources")
	}

	log.Info("calendar_sources_loaded", slog.Int("count", len(sources)))
	return ingest.NewImporter(sources, sink, ingest.Options{Metrics: registry}, log)
}

func runImport(log *slog.Logger, importer *ingest.Importer) {
	if importer == nil {
		log.Error("calendar_import_unavailable")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ImportTimeout)
	defer cancel()

	report, err := importer.Run(ctx)
	must(log, err, "run calendar import")

	log.Info("calendar_import_complete",
		slog.Int("inserted", report.Inserted),
		slog.Int("failed", report.Failed),
	)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
