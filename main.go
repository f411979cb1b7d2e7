// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/bankchat/analytics"
	"github.com/danielhkuo/bankchat/auth"
	"github.com/danielhkuo/bankchat/cache"
	"github.com/danielhkuo/bankchat/cliparse"
	"github.com/danielhkuo/bankchat/db"
	"github.com/danielhkuo/bankchat/middleware"
	"github.com/danielhkuo/bankchat/router"
	"github.com/danielhkuo/bankchat/summary"
	"github.com/danielhkuo/bankchat/web"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()

	// Connect to the conversation database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Session store
	var sessionCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		sessionCache = r
		slog.Info("Using redis for sessions")
	}
	defer sessionCache.Close()

	sessions := auth.NewManager(sessionCache, auth.Options{
		Secret:   cfg.SessionSecret,
		TTL:      cfg.SessionTTL,
		Username: cfg.RMUsername,
		Password: cfg.RMPassword,
	})

	// Customer summaries are optional
	var summarizer summary.Summarizer
	if cfg.GeminiAPIKey != "" {
		g, err := summary.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("gemini client failed", "error", err)
			os.Exit(1)
		}
		defer g.Close()
		summarizer = g
	} else {
		slog.Info("GEMINI_API_KEY not set, customer summaries disabled")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		slog.Error("template parsing failed", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(router.Deps{
		DB:           dbConn,
		Sessions:     sessions,
		Analyst:      analytics.NewClient(cfg.Analytics),
		Summarizer:   summarizer,
		Renderer:     renderer,
		SecureCookie: cfg.SecureCookie,
	})

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Analytics.Timeout+5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "analytics", cfg.Analytics.URL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
