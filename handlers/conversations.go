// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/bankchat/middleware"
	"github.com/danielhkuo/bankchat/models"
	"github.com/danielhkuo/bankchat/store"
)

// Analyst answers a question given the conversation so far.
type Analyst interface {
	Ask(ctx context.Context, query string, history []models.Message) (models.Message, error)
}

var (
	errEmptyContent = errors.New("content is required")
	errSendInFlight = errors.New("a message is already being sent in this conversation")
)

type ConversationHandler struct {
	store    *store.Store
	analyst  Analyst
	inflight *inflight
}

func NewConversationHandler(s *store.Store, analyst Analyst) *ConversationHandler {
	return &ConversationHandler{store: s, analyst: analyst, inflight: newInflight()}
}

// Create handles POST /api/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	conv, err := h.store.CreateConversation(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create conversation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	slog.Info("conversation created", "conversation_id", conv.ID, "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusCreated, conv)
}

// List handles GET /api/conversations?q=
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	convs, err := h.store.ListConversations(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("failed to list conversations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListConversationsResponse{Conversations: convs})
}

// Get handles GET /api/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	conv, err := h.store.GetConversation(r.Context(), user.ID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		slog.Error("failed to load conversation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, conv)
}

// Rename handles PATCH /api/conversations/{id}
func (h *ConversationHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id := r.PathValue("id")

	var req models.RenameConversationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	_, err := h.store.RenameConversation(r.Context(), user.ID, id, req.Name)
	switch {
	case errors.Is(err, store.ErrEmptyName):
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Conversation not found")
		return
	case err != nil:
		slog.Error("failed to rename conversation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to rename conversation")
		return
	}

	conv, err := h.store.GetConversation(r.Context(), user.ID, id)
	if err != nil {
		slog.Error("failed to reload conversation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, conv)
}

// Delete handles DELETE /api/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id := r.PathValue("id")

	err := h.store.DeleteConversation(r.Context(), user.ID, id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete conversation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}

	slog.Info("conversation deleted", "conversation_id", id, "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Suggestions handles GET /api/suggestions
func (h *ConversationHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.SuggestionsResponse{Suggestions: models.WelcomeSuggestions})
}

// SendMessage handles POST /api/conversations/{id}/messages
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req models.SendMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userMsg, botMsg, err := h.send(r.Context(), user.ID, r.PathValue("id"), req.Content)
	switch {
	case errors.Is(err, errEmptyContent):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, errSendInFlight):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Conversation not found")
		return
	case err != nil:
		slog.Error("failed to send message", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SendMessageResponse{
		UserMessage: userMsg,
		BotMessage:  botMsg,
	})
}

// send appends the RM's message, asks the analyst with the history that
// preceded it and appends the reply. Only one send per conversation may be
// outstanding. Once the user message is stored, failures are recorded as an
// error bot message instead of being returned.
func (h *ConversationHandler) send(ctx context.Context, userID, conversationID, content string) (models.Message, models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, models.Message{}, errEmptyContent
	}

	key := userID + "/" + conversationID
	if !h.inflight.acquire(key) {
		return models.Message{}, models.Message{}, errSendInFlight
	}
	defer h.inflight.release(key)

	conv, err := h.store.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return models.Message{}, models.Message{}, err
	}

	userMsg := models.NewUserMessage(content)
	if err := h.store.AppendMessage(ctx, userID, conversationID, userMsg); err != nil {
		return models.Message{}, models.Message{}, fmt.Errorf("failed to store user message: %w", err)
	}

	// The exchange completes even if the client goes away mid-request.
	// The analytics client timeout still bounds Ask.
	persist := context.WithoutCancel(ctx)

	botMsg, err := h.analyst.Ask(persist, content, conv.Messages)
	if err != nil {
		slog.Error("analytics request failed", "conversation_id", conversationID, "error", err)
		botMsg = models.NewErrorMessage()
	}
	if botMsg.Timestamp.Before(userMsg.Timestamp) {
		botMsg.Timestamp = userMsg.Timestamp
	}

	if err := h.store.AppendMessage(persist, userID, conversationID, botMsg); err != nil {
		slog.Error("failed to store bot message", "conversation_id", conversationID, "error", err)
		botMsg = models.NewErrorMessage()
		if err := h.store.AppendMessage(persist, userID, conversationID, botMsg); err != nil {
			return userMsg, models.Message{}, fmt.Errorf("failed to store error message: %w", err)
		}
	}

	slog.Info("message answered", "conversation_id", conversationID, "has_table", botMsg.Content.HasTable(), "has_chart", botMsg.Content.Chart != nil)
	return userMsg, botMsg, nil
}
