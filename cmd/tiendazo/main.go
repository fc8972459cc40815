// Package main is the entry point for the Tiendazo storefront server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tiendazo/internal/cache"
	"tiendazo/internal/config"
	"tiendazo/internal/database"
	"tiendazo/internal/engine"
	"tiendazo/internal/handlers"
	"tiendazo/internal/middleware"
	"tiendazo/internal/router"
	"tiendazo/internal/service"
	"tiendazo/internal/sitegen"
	"tiendazo/internal/storage"
	"tiendazo/internal/store"
)

func main() {
	// A missing .env file is fine; real deployments use the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"sites_dir", cfg.SitesDir,
		"locale", cfg.SiteLocale,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a demo store in development (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	deps := service.Deps{
		Shops:    store.NewShopStore(db),
		Products: store.NewProductStore(db),
		Themes:   store.NewThemeStore(db),
		Registry: engine.NewRegistry(engine.Options{Locale: cfg.Locale()}),
		CacheLog: store.NewCacheLogStore(db),
	}

	// Valkey serializes regeneration across instances. Without it a single
	// instance still works with an in-process lock.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, using in-process site lock", "error", err)
	} else {
		defer valkeyClient.Close()
		deps.Locker = cache.NewSiteLock(valkeyClient, cfg.SiteLockTTL, cfg.SiteLockWait)
	}

	// Generated bundles live on local disk.
	sites, err := sitegen.New(cfg.SitesDir)
	if err != nil {
		slog.Error("failed to prepare sites directory", "error", err)
		os.Exit(1)
	}
	deps.Sites = sites

	// Mirror bundles to S3-compatible storage (optional).
	if cfg.UseStorage() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			deps.Publisher = storageClient
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
		}
	} else {
		slog.Info("s3 storage not configured, bundles are served from disk only")
	}

	themeService := service.NewThemeService(deps)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	r := router.New(router.Options{
		SitesRoot: sites.Root(),
		HSTS:      cfg.HSTS,
		Limiter:   limiter,
	}, handlers.NewThemes(themeService), handlers.NewPublic(themeService))

	// Create the HTTP server with sensible timeouts. WriteTimeout covers a
	// render that waits on the regeneration lock.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SiteLockWait + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
