// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/bankchat/cache"
	"github.com/danielhkuo/bankchat/models"
)

// SessionCookie is the cookie that carries the session token for browser pages.
const SessionCookie = "bankchat_session"

// MockUserID is the fixed ID of the single configured RM account.
const MockUserID = "user-123"

const sessionKeyPrefix = "session:"

type Options struct {
	Secret   string
	TTL      time.Duration
	Username string
	Password string
}

// Manager issues and resolves login sessions.
type Manager struct {
	cache cache.Cache
	opts  Options
}

func NewManager(c cache.Cache, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{cache: c, opts: opts}
}

func (m *Manager) TTL() time.Duration {
	return m.opts.TTL
}

// Login checks the credentials and persists a new session.
func (m *Manager) Login(ctx context.Context, username, password string) (string, models.User, error) {
	if err := CheckCredentials(username, password, m.opts.Username, m.opts.Password); err != nil {
		return "", models.User{}, err
	}

	sessionID, err := GenerateID(24)
	if err != nil {
		return "", models.User{}, err
	}

	user := models.User{ID: MockUserID, Username: username}
	payload, err := json.Marshal(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := m.cache.Set(ctx, sessionKeyPrefix+sessionID, string(payload), m.opts.TTL); err != nil {
		return "", models.User{}, fmt.Errorf("failed to store session: %w", err)
	}

	return EncodeToken(sessionID, m.opts.Secret), user, nil
}

// Logout removes the session. Unknown or malformed tokens are not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	sessionID, err := DecodeToken(token, m.opts.Secret)
	if err != nil {
		return nil
	}
	if _, err := m.cache.Del(ctx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CurrentUser resolves a token to its user.
func (m *Manager) CurrentUser(ctx context.Context, token string) (models.User, error) {
	sessionID, err := DecodeToken(token, m.opts.Secret)
	if err != nil {
		return models.User{}, err
	}

	raw, err := m.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if errors.Is(err, cache.ErrMiss) {
		return models.User{}, ErrSessionNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// Corrupt entry: drop it and treat the caller as signed out
		slog.Warn("dropping corrupt session", "error", err)
		_, _ = m.cache.Del(ctx, sessionKeyPrefix+sessionID)
		return models.User{}, ErrSessionNotFound
	}
	return user, nil
}
