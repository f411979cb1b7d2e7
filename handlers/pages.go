// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bankchat/auth"
	"github.com/danielhkuo/bankchat/middleware"
	"github.com/danielhkuo/bankchat/models"
	"github.com/danielhkuo/bankchat/store"
	"github.com/danielhkuo/bankchat/web"
)

// PageHandler serves the browser UI. Forms post back here and every
// successful action redirects, so a refresh never resubmits.
type PageHandler struct {
	sessions      *auth.Manager
	store         *store.Store
	conversations *ConversationHandler
	renderer      *web.Renderer
	secureCookie  bool
}

func NewPageHandler(sessions *auth.Manager, s *store.Store, conversations *ConversationHandler, renderer *web.Renderer, secureCookie bool) *PageHandler {
	return &PageHandler{
		sessions:      sessions,
		store:         s,
		conversations: conversations,
		renderer:      renderer,
		secureCookie:  secureCookie,
	}
}

// Root handles GET /
func (h *PageHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// LoginForm handles GET /login
func (h *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if _, err := h.sessions.CurrentUser(r.Context(), token); err == nil {
			http.Redirect(w, r, "/chat", http.StatusSeeOther)
			return
		}
	}
	h.render(w, http.StatusOK, "login", web.LoginPage{})
}

// Login handles POST /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "login", web.LoginPage{Error: "Invalid form submission"})
		return
	}
	username := r.PostFormValue("username")

	token, user, err := h.sessions.Login(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Warn("login rejected", "username", username, "remote", middleware.GetClientIP(r))
		h.render(w, http.StatusUnauthorized, "login", web.LoginPage{Username: username, Error: invalidCredentialsText})
		return
	}
	if err != nil {
		slog.Error("failed to create session", "error", err)
		h.render(w, http.StatusInternalServerError, "login", web.LoginPage{Username: username, Error: "Sign in failed, please try again"})
		return
	}

	setSessionCookie(w, token, h.sessions.TTL(), h.secureCookie)
	slog.Info("rm signed in", "user_id", user.ID)
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), middleware.SessionToken(r)); err != nil {
		slog.Error("failed to delete session", "error", err)
	}
	clearSessionCookie(w, h.secureCookie)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Chat handles GET /chat
func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	page, ok := h.chatPage(w, r, user)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, "chat", page)
}

// Conversation handles GET /chat/{id}
func (h *PageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	page, ok := h.chatPage(w, r, user)
	if !ok {
		return
	}

	conv, err := h.store.GetConversation(r.Context(), user.ID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		page.Error = "Conversation not found"
		h.render(w, http.StatusNotFound, "chat", page)
		return
	}
	if err != nil {
		slog.Error("failed to load conversation", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	page.Active = &conv
	page.Messages = web.VisibleMessages(conv.Messages)
	h.render(w, http.StatusOK, "chat", page)
}

// NewConversation handles POST /chat/new. A "content" field, as sent by
// the suggestion buttons, is sent as the first message.
func (h *PageHandler) NewConversation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	conv, err := h.store.CreateConversation(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create conversation", "error", err)
		http.Error(w, "Failed to create conversation", http.StatusInternalServerError)
		return
	}

	if content := r.PostFormValue("content"); content != "" {
		if _, _, err := h.conversations.send(r.Context(), user.ID, conv.ID, content); err != nil {
			slog.Error("failed to send first message", "conversation_id", conv.ID, "error", err)
		}
	}

	http.Redirect(w, r, "/chat/"+conv.ID, http.StatusSeeOther)
}

// Send handles POST /chat/{id}/send
func (h *PageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id := r.PathValue("id")

	_, _, err := h.conversations.send(r.Context(), user.ID, id, r.PostFormValue("content"))
	switch {
	case err == nil, errors.Is(err, errEmptyContent):
	case errors.Is(err, errSendInFlight):
		h.conversationError(w, r, user, id, http.StatusConflict, "Please wait for the current answer before sending another question.")
		return
	case errors.Is(err, store.ErrNotFound):
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	default:
		slog.Error("failed to send message", "error", err)
		h.conversationError(w, r, user, id, http.StatusInternalServerError, models.SendFailedText)
		return
	}

	http.Redirect(w, r, "/chat/"+id, http.StatusSeeOther)
}

// Rename handles POST /chat/{id}/rename
func (h *PageHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id := r.PathValue("id")

	_, err := h.store.RenameConversation(r.Context(), user.ID, id, r.PostFormValue("name"))
	switch {
	case err == nil:
	case errors.Is(err, store.ErrEmptyName):
		h.conversationError(w, r, user, id, http.StatusBadRequest, "Conversation name cannot be empty.")
		return
	case errors.Is(err, store.ErrNotFound):
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	default:
		slog.Error("failed to rename conversation", "error", err)
		http.Error(w, "Failed to rename conversation", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/chat/"+id, http.StatusSeeOther)
}

// Delete handles POST /chat/{id}/delete
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	err := h.store.DeleteConversation(r.Context(), user.ID, r.PathValue("id"))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to delete conversation", "error", err)
		http.Error(w, "Failed to delete conversation", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

func (h *PageHandler) chatPage(w http.ResponseWriter, r *http.Request, user models.User) (web.ChatPage, bool) {
	search := r.URL.Query().Get("q")
	convs, err := h.store.ListConversations(r.Context(), user.ID, search)
	if err != nil {
		slog.Error("failed to list conversations", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return web.ChatPage{}, false
	}
	return web.ChatPage{
		User:          user,
		Conversations: convs,
		Search:        search,
		Suggestions:   models.WelcomeSuggestions,
	}, true
}

// conversationError re-renders the conversation with an inline error.
func (h *PageHandler) conversationError(w http.ResponseWriter, r *http.Request, user models.User, id string, status int, message string) {
	page, ok := h.chatPage(w, r, user)
	if !ok {
		return
	}
	page.Error = message
	if conv, err := h.store.GetConversation(r.Context(), user.ID, id); err == nil {
		page.Active = &conv
		page.Messages = web.VisibleMessages(conv.Messages)
	}
	h.render(w, status, "chat", page)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.renderer.Render(w, status, page, data); err != nil {
		slog.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
