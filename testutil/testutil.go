// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/bankchat/analytics"
	"github.com/danielhkuo/bankchat/auth"
	"github.com/danielhkuo/bankchat/cache"
	"github.com/danielhkuo/bankchat/cliparse"
	"github.com/danielhkuo/bankchat/db"
)

// Mock RM credentials used across tests
const (
	TestUsername = "rm_user"
	TestPassword = "password123"
)

// SetupTestDB creates a fresh sqlite database with the full schema.
// The file lives in t.TempDir and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "bankchat-test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration pointing analytics at
// analyticsURL.
func GetTestConfig(analyticsURL string) cliparse.Config {
	a := analytics.DefaultConfig()
	a.URL = analyticsURL
	a.APIKey = "test-api-key"
	a.Timeout = 5 * time.Second

	return cliparse.Config{
		Port:          3318,
		DatabaseType:  db.TypeSQLite,
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
		RMUsername:    TestUsername,
		RMPassword:    TestPassword,
		Analytics:     a,
	}
}

// NewSessions returns a session manager backed by an in-memory cache.
func NewSessions(cfg cliparse.Config) *auth.Manager {
	return auth.NewManager(cache.NewMemory(), auth.Options{
		Secret:   cfg.SessionSecret,
		TTL:      cfg.SessionTTL,
		Username: cfg.RMUsername,
		Password: cfg.RMPassword,
	})
}

// LoginToken signs in the mock RM and returns the session token.
func LoginToken(t *testing.T, sessions *auth.Manager) string {
	t.Helper()

	token, _, err := sessions.Login(context.Background(), TestUsername, TestPassword)
	if err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	return token
}

// BearerHeader builds the Authorization header map for MakeRequest.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AnalyticsStub starts a fake analytics service answering every request
// with status and body.
func AnalyticsStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
