// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command hubcms runs the content editing dashboard: the admin JSON API
// over the remote content service and the public snapshot endpoints.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/kemujan/hubcms/internal/cache"
	"github.com/kemujan/hubcms/internal/config"
	"github.com/kemujan/hubcms/internal/dashboard"
	"github.com/kemujan/hubcms/internal/draft"
	"github.com/kemujan/hubcms/internal/handler"
	"github.com/kemujan/hubcms/internal/logging"
	"github.com/kemujan/hubcms/internal/middleware"
	"github.com/kemujan/hubcms/internal/remote"
	"github.com/kemujan/hubcms/internal/scheduler"
	"github.com/kemujan/hubcms/internal/service"
	"github.com/kemujan/hubcms/internal/session"
	"github.com/kemujan/hubcms/internal/snapshot"
	"github.com/kemujan/hubcms/internal/store"
	"github.com/kemujan/hubcms/internal/version"
)

const (
	refreshSchedule      = "@every 15m"
	guardPruneInterval   = 10 * time.Minute
	guardMaxTrackedIPs   = 10000
	publicRateLimit      = 20
	publicRateLimitBurst = 40
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Content editing dashboard for the hub content service.\n")
		_, _ = fmt.Fprintf(os.Stderr, "Configuration is read from HUBCMS_* environment variables and .env.\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		info := version.Current()
		fmt.Printf("hubcms %s\n", info)
		if info.BuildTime != "" {
			fmt.Printf("built %s\n", info.BuildTime)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// WARN and ERROR records also go to the audit event log.
	logger = slog.New(logging.NewEventLogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	rc, err := remote.New(cfg.APIURL, cfg.Timeout(), logger)
	if err != nil {
		return fmt.Errorf("creating content service client: %w", err)
	}
	slog.Info("content service", "url", cfg.APIURL, "timeout", cfg.Timeout())

	sm := session.New(db, cfg.IsDevelopment())
	gate := session.NewGate(rc, session.NewSCSFlags(sm), logger)
	events := service.NewEventService(db, logger)

	content := draft.NewStore(rc, logger)
	theme := draft.NewThemeStore(rc, logger)

	snapshotCache := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheDefaultTTL(),
		CleanupInterval: time.Minute,
	}, logger)
	defer func() { _ = snapshotCache.Close() }()

	publisher := snapshot.NewPublisher(snapshotCache, logger)
	publisher.Attach(content, theme)
	defer publisher.Close()

	dash := dashboard.New(dashboard.Deps{
		Gate:      gate,
		Content:   content,
		Theme:     theme,
		Articles:  service.NewArticleService(rc.Articles(), cfg.UploadMaxWidth, logger),
		Questions: service.NewQuestionService(rc.Questions(), logger),
		Videos:    service.NewVideoService(rc.Videos(), logger),
		Events:    events,
		Logger:    logger,
	})

	preloadCtx, cancelPreload := context.WithTimeout(context.Background(), 2*cfg.Timeout())
	_ = dash.Preload(preloadCtx)
	cancelPreload()

	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.PruneEvents(events, cfg.EventRetention(), logger)); err != nil {
		return fmt.Errorf("scheduling event pruning: %w", err)
	}
	if err := sched.Add(scheduler.RefreshContent(dash, refreshSchedule)); err != nil {
		return fmt.Errorf("scheduling content refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	guard := middleware.NewLoginGuard(middleware.DefaultLoginGuardConfig(), logger)
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go func() {
		ticker := time.NewTicker(guardPruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				guard.Prune(guardMaxTrackedIPs)
			}
		}
	}()

	api := handler.NewAPI(dash, events, guard, logger)
	api.Jobs = handler.NewSchedulerHandler(sched, dash, logger)
	api.Cache = handler.NewCacheHandler(snapshotCache, publisher, dash, logger)
	public := handler.NewPublicHandler(snapshot.NewReader(snapshotCache), logger)
	health := handler.NewHealthHandler(db, snapshotCache, gate, version.Current())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sm.LoadAndSave)

	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)

	r.Route("/admin/api", func(r chi.Router) {
		// Resolving a reference is a pure computation.
		r.Use(middleware.SkipCSRF("/admin/api" + handler.RouteVideos + handler.RouteSuffixResolve))
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
		r.Use(middleware.EventSource)
		api.Routes(r, middleware.RequireAuth(gate))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PublicRateLimit(publicRateLimit, publicRateLimitBurst))
		public.Routes(r)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Current().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
