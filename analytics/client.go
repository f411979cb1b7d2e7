// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/bankchat/models"
)

// Charts arrive base64-encoded inline, so responses can be large
const maxResponseBytes = 32 << 20

type apiText struct {
	Text string `json:"text"`
}

type apiMessage struct {
	Role    string    `json:"role"`
	Content []apiText `json:"content"`
}

type askRequest struct {
	UserPersona      string       `json:"user_persona"`
	UserQuery        string       `json:"user_query"`
	SQLModelID       string       `json:"sql_model_id"`
	ChatModelID      string       `json:"chat_model_id"`
	EmbeddingModelID string       `json:"embedding_model_id"`
	Approach         string       `json:"approach"`
	DBConnConf       DBConnConfig `json:"db_conn_conf"`
	Metadata         Metadata     `json:"metadata"`
	Messages         []apiMessage `json:"messages"`
	Session          string       `json:"session"`
}

// Client calls the external text-to-SQL service.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// formatHistory converts prior messages into the service's chat format,
// dropping the welcome greeting and anything without text.
func formatHistory(history []models.Message) []apiMessage {
	out := []apiMessage{}
	for _, msg := range history {
		if msg.IsWelcome() || msg.Content.Text == "" {
			continue
		}
		role := "user"
		if msg.Sender == models.SenderBot {
			role = "assistant"
		}
		out = append(out, apiMessage{
			Role:    role,
			Content: []apiText{{Text: msg.Content.Text}},
		})
	}
	return out
}

// Ask sends query with the preceding history and returns the bot reply.
// Transport failures and non-2xx statuses are reported inside the returned
// message; the error is reserved for requests that could not be built.
func (c *Client) Ask(ctx context.Context, query string, history []models.Message) (models.Message, error) {
	body, err := json.Marshal(askRequest{
		UserPersona:      c.cfg.Persona,
		UserQuery:        query,
		SQLModelID:       c.cfg.SQLModelID,
		ChatModelID:      c.cfg.ChatModelID,
		EmbeddingModelID: c.cfg.EmbeddingModelID,
		Approach:         c.cfg.Approach,
		DBConnConf:       c.cfg.DBConn,
		Metadata:         c.cfg.Metadata,
		Messages:         formatHistory(history),
		Session:          c.cfg.Session,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to encode analytics request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to build analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("analytics request failed", "error", err)
		return models.NewBotMessage(models.MessageContent{Text: "Error: " + err.Error()}), nil
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		slog.Error("failed to read analytics response", "error", err, "status", resp.StatusCode)
		return models.NewBotMessage(models.MessageContent{Text: "Error: " + err.Error()}), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(payload))
		if detail == "" {
			detail = "Failed to get response"
		}
		slog.Error("analytics API error", "status", resp.StatusCode, "body", detail)
		return models.NewBotMessage(models.MessageContent{
			Text: fmt.Sprintf("Error from BankerAI API: %d - %s", resp.StatusCode, detail),
		}), nil
	}

	return models.NewBotMessage(MapResponse(payload)), nil
}
