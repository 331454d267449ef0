// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

// Command manhaj runs the multilingual editorial admin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/Alban-i/manhaj-admin-sub002/internal/cache"
	"github.com/Alban-i/manhaj-admin-sub002/internal/config"
	"github.com/Alban-i/manhaj-admin-sub002/internal/handler"
	"github.com/Alban-i/manhaj-admin-sub002/internal/imaging"
	"github.com/Alban-i/manhaj-admin-sub002/internal/logging"
	"github.com/Alban-i/manhaj-admin-sub002/internal/middleware"
	"github.com/Alban-i/manhaj-admin-sub002/internal/model"
	"github.com/Alban-i/manhaj-admin-sub002/internal/module"
	"github.com/Alban-i/manhaj-admin-sub002/internal/render"
	"github.com/Alban-i/manhaj-admin-sub002/internal/service"
	"github.com/Alban-i/manhaj-admin-sub002/internal/session"
	"github.com/Alban-i/manhaj-admin-sub002/internal/store"
	"github.com/Alban-i/manhaj-admin-sub002/internal/widget"
	"github.com/Alban-i/manhaj-admin-sub002/modules/imagegen"
	"github.com/Alban-i/manhaj-admin-sub002/modules/summary"
	"github.com/Alban-i/manhaj-admin-sub002/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("manhaj-admin %s (commit %s, built %s)\n", appVersion, appGitCommit, appBuildTime)
		return
	}

	if err := run(); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// With the events table in place, WARN and above also lands there.
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	logger.Info("starting manhaj-admin",
		"version", appVersion, "env", cfg.Env, "db", cfg.DBPath)

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	queries := store.New(db)
	sessionManager := session.New(db, cfg.IsDevelopment())

	appCache := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() {
		if err := appCache.Close(); err != nil {
			logger.Error("closing cache", "error", err)
		}
	}()

	languageCache := cache.NewLanguageCache(queries)
	if err := languageCache.Preload(ctx); err != nil {
		return fmt.Errorf("preloading languages: %w", err)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("templates filesystem: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("building renderer: %w", err)
	}

	widgetRegistry, err := widget.NewRegistry()
	if err != nil {
		return fmt.Errorf("loading widgets: %w", err)
	}

	imageProcessor := imaging.NewProcessor(cfg.UploadsDir)
	eventService := service.NewEventService(db)

	scheduler := service.NewScheduler(db, logger, cfg.EventRetentionDays)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer scheduler.Stop()

	moduleRegistry := module.NewRegistry(logger)
	for _, m := range []module.Module{summary.New(), imagegen.New()} {
		if err := moduleRegistry.Register(m); err != nil {
			return fmt.Errorf("registering module %s: %w", m.Name(), err)
		}
	}
	moduleCtx := &module.Context{
		DB:      db,
		Store:   queries,
		Logger:  logger,
		Config:  cfg,
		Render:  renderer,
		Events:  eventService,
		Imaging: imageProcessor,
		Cache:   appCache,
	}
	if err := moduleRegistry.InitAll(moduleCtx); err != nil {
		return fmt.Errorf("initializing modules: %w", err)
	}
	defer moduleRegistry.ShutdownAll()

	contentHandlers := make(map[string]*handler.ContentHandler, len(model.Kinds))
	for _, kind := range model.Kinds {
		contentHandlers[kind.Plural] = handler.NewContentHandler(db, renderer, languageCache, kind)
	}
	dashboardHandler := handler.NewDashboardHandler(db, renderer, languageCache)
	taxonomyHandler := handler.NewTaxonomyHandler(db, renderer, languageCache)
	authorsHandler := handler.NewAuthorsHandler(db, renderer, languageCache)
	languagesHandler := handler.NewLanguagesHandler(db, renderer, languageCache)
	eventsHandler := handler.NewEventsHandler(db, renderer, languageCache)
	healthHandler := handler.NewHealthHandler(db, appVersion)

	csrfMiddleware := middleware.CSRF(
		middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/admin", func(r chi.Router) {
		// The summary endpoint is called via fetch with a JSON body, so
		// it carries no form token.
		r.Use(middleware.SkipCSRF("/admin/api/summary"))
		r.Use(csrfMiddleware)

		r.Get("/", dashboardHandler.Dashboard)
		for _, kind := range model.Kinds {
			r.Route("/"+kind.Plural, contentHandlers[kind.Plural].Routes)
		}
		r.Route("/tags", taxonomyHandler.TagRoutes)
		r.Route("/categories", taxonomyHandler.CategoryRoutes)
		r.Route("/authors", authorsHandler.Routes)
		r.Route("/languages", languagesHandler.Routes)
		r.Route("/events", eventsHandler.Routes)

		// Module routes host the AI endpoints; keep a per-IP ceiling on
		// them so a stuck client cannot drain the provider quota.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitPerIP(10, 20))
			moduleRegistry.RegisterAdminRoutes(r)
		})
	})

	r.Handle("/widgets/*", widgetRegistry)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("static filesystem: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
