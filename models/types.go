// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender constants
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Conversation defaults
const (
	DefaultConversationName = "New Conversation"
	WelcomeText             = "Welcome! How can I assist you today?"
	WelcomeIDPrefix         = "msg-init-"
	SendFailedText          = "Sorry, I encountered an error. Please try again."
)

// WelcomeSuggestions are the starter prompts shown on an empty conversation.
var WelcomeSuggestions = []string{
	"Show customer portfolio analysis",
	"Generate risk assessment report",
	"What's the transaction history?",
	"Analyze account balance trends",
}

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RenameConversationRequest struct {
	Name string `json:"name"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

// Response types

type LoginResponse struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SendMessageResponse struct {
	UserMessage Message `json:"user_message"`
	BotMessage  Message `json:"bot_message"`
}

type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type CustomerSummaryResponse struct {
	CustomerID string `json:"customer_id"`
	Summary    string `json:"summary"`
}

// Domain types

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"` // RM ID
}

type Chart struct {
	URL     string `json:"url"` // may be a data URI
	AltText string `json:"alt_text"`
}

type SQLInfo struct {
	Query     string `json:"query"`
	Reasoning string `json:"reasoning,omitempty"`
}

// MessageContent is the structured body of a message. User messages only
// carry Text.
type MessageContent struct {
	Text         string           `json:"text,omitempty"`
	Chart        *Chart           `json:"chart,omitempty"`
	SQLInfo      *SQLInfo         `json:"sql_info,omitempty"`
	TableColumns []string         `json:"table_columns,omitempty"`
	TableData    []map[string]any `json:"table_data,omitempty"`
}

// HasTable reports whether the content carries at least one table row.
func (c MessageContent) HasTable() bool {
	return len(c.TableData) > 0
}

// Columns returns the table header. Rows stored without an explicit column
// order fall back to the first row's keys, sorted.
func (c MessageContent) Columns() []string {
	if len(c.TableColumns) > 0 {
		return c.TableColumns
	}
	if len(c.TableData) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(c.TableData[0]))
}

type Message struct {
	ID        string         `json:"id"`
	Sender    string         `json:"sender"`
	Content   MessageContent `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
}

// IsWelcome reports whether m is the placeholder greeting of a new conversation.
func (m Message) IsWelcome() bool {
	return strings.HasPrefix(m.ID, WelcomeIDPrefix)
}

type Conversation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Messages     []Message `json:"messages"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	UserID       string    `json:"user_id"`
}

// IsFresh reports whether the conversation only holds its welcome message.
func (c Conversation) IsFresh() bool {
	return len(c.Messages) == 1 && c.Messages[0].Sender == SenderBot && c.Messages[0].IsWelcome()
}

// ConversationSummary is a sidebar entry.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Preview      string    `json:"preview"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// NewID returns a unique identifier with the given prefix.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func NewUserMessage(text string) Message {
	return Message{
		ID:        NewID("user"),
		Sender:    SenderUser,
		Content:   MessageContent{Text: text},
		Timestamp: time.Now().UTC(),
	}
}

func NewBotMessage(content MessageContent) Message {
	return Message{
		ID:        NewID("bot"),
		Sender:    SenderBot,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

func NewWelcomeMessage(now time.Time) Message {
	return Message{
		ID:        WelcomeIDPrefix + uuid.NewString(),
		Sender:    SenderBot,
		Content:   MessageContent{Text: WelcomeText},
		Timestamp: now,
	}
}

// NewErrorMessage is appended when a send could not be completed.
func NewErrorMessage() Message {
	return Message{
		ID:        NewID("err"),
		Sender:    SenderBot,
		Content:   MessageContent{Text: SendFailedText},
		Timestamp: time.Now().UTC(),
	}
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
