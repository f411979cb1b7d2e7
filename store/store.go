// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/bankchat/models"
)

var (
	ErrNotFound  = errors.New("conversation not found")
	ErrEmptyName = errors.New("conversation name is empty")
)

const previewLen = 30

// Store persists conversations and their messages.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func toMicros(t time.Time) int64 {
	return t.UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

func encodeContent(c models.MessageContent) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode message content: %w", err)
	}
	return string(b), nil
}

func decodeContent(raw string) (models.MessageContent, error) {
	var c models.MessageContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return c, fmt.Errorf("failed to decode message content: %w", err)
	}
	return c, nil
}

// preview mirrors the sidebar snippet: the last message truncated to 30
// characters, or a prompt when only the greeting exists.
func preview(count int, sender string, content models.MessageContent) string {
	if count <= 1 {
		return "Click to continue conversation..."
	}
	text := content.Text
	if utf8.RuneCountInString(text) > previewLen {
		text = string([]rune(text)[:previewLen])
	}
	switch sender {
	case models.SenderUser:
		return "You: " + text + "..."
	case models.SenderBot:
		return "AI: " + text + "..."
	}
	return "Click to continue conversation..."
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
