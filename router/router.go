// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bankchat/auth"
	"github.com/danielhkuo/bankchat/handlers"
	"github.com/danielhkuo/bankchat/middleware"
	"github.com/danielhkuo/bankchat/store"
	"github.com/danielhkuo/bankchat/summary"
	"github.com/danielhkuo/bankchat/web"
)

// Deps are the services the routes are wired to. Summarizer may be nil.
type Deps struct {
	DB           *sql.DB
	Sessions     *auth.Manager
	Analyst      handlers.Analyst
	Summarizer   summary.Summarizer
	Renderer     *web.Renderer
	SecureCookie bool
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	st := store.New(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.SecureCookie)
	convHandler := handlers.NewConversationHandler(st, deps.Analyst)
	exportHandler := handlers.NewExportHandler(st)
	summaryHandler := handlers.NewSummaryHandler(deps.Summarizer)
	pageHandler := handlers.NewPageHandler(deps.Sessions, st, convHandler, deps.Renderer, deps.SecureCookie)

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(deps.Sessions, h))
	}
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequirePage(deps.Sessions, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session (public)
	mux.HandleFunc("POST /api/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /api/logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("GET /api/me", api(authHandler.Me))

	// Conversations
	mux.HandleFunc("GET /api/suggestions", api(convHandler.Suggestions))
	mux.HandleFunc("GET /api/conversations", api(convHandler.List))
	mux.HandleFunc("POST /api/conversations", api(convHandler.Create))
	mux.HandleFunc("GET /api/conversations/{id}", api(convHandler.Get))
	mux.HandleFunc("PATCH /api/conversations/{id}", api(convHandler.Rename))
	mux.HandleFunc("DELETE /api/conversations/{id}", api(convHandler.Delete))
	mux.HandleFunc("POST /api/conversations/{id}/messages", api(convHandler.SendMessage))
	mux.HandleFunc("GET /api/conversations/{id}/messages/{messageID}/table.xlsx", api(exportHandler.TableXLSX))

	// Customer summaries (503 unless Gemini is configured)
	mux.HandleFunc("POST /api/customers/{id}/summary", api(summaryHandler.CustomerSummary))

	// Browser pages
	mux.HandleFunc("GET /login", middleware.WithLogging(pageHandler.LoginForm))
	mux.HandleFunc("POST /login", middleware.WithLogging(pageHandler.Login))
	mux.HandleFunc("POST /logout", middleware.WithLogging(pageHandler.Logout))
	mux.HandleFunc("GET /chat", page(pageHandler.Chat))
	mux.HandleFunc("POST /chat/new", page(pageHandler.NewConversation))
	mux.HandleFunc("GET /chat/{id}", page(pageHandler.Conversation))
	mux.HandleFunc("POST /chat/{id}/send", page(pageHandler.Send))
	mux.HandleFunc("POST /chat/{id}/rename", page(pageHandler.Rename))
	mux.HandleFunc("POST /chat/{id}/delete", page(pageHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /", pageHandler.Root)

	return mux
}
