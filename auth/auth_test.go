// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/bankchat/cache"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestSignSessionID(t *testing.T) {
	sig := SignSessionID("abc", "secret")
	if sig == "" {
		t.Fatal("SignSessionID() returned empty string")
	}
	if sig != SignSessionID("abc", "secret") {
		t.Error("SignSessionID() is not deterministic")
	}
	if sig == SignSessionID("abcx", "secret") {
		t.Error("SignSessionID() produced same signature for different IDs")
	}
	if strings.Contains(sig, "=") {
		t.Error("SignSessionID() contains padding characters")
	}
}

func TestDecodeToken(t *testing.T) {
	secret := "test-secret"
	valid := EncodeToken("session-1", secret)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantID  string
		wantErr bool
	}{
		{"valid token", valid, secret, "session-1", false},
		{"wrong secret", valid, "other-secret", "", true},
		{"tampered id", "session-2." + strings.SplitN(valid, ".", 2)[1], secret, "", true},
		{"no separator", "session-1", secret, "", true},
		{"empty", "", secret, "", true},
		{"empty signature", "session-1.", secret, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := DecodeToken(tt.token, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidToken {
				t.Errorf("DecodeToken() error = %v, want %v", err, ErrInvalidToken)
			}
			if id != tt.wantID {
				t.Errorf("DecodeToken() id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestCheckCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "rm_user", "password123", false},
		{"wrong password", "rm_user", "password124", true},
		{"wrong username", "someone", "password123", true},
		{"empty", "", "", true},
		{"case sensitive", "RM_USER", "password123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCredentials(tt.username, tt.password, "rm_user", "password123")
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := CheckCredentials("", "", "", ""); err == nil {
		t.Error("an unconfigured account must never authenticate")
	}
}

func newTestManager() *Manager {
	return NewManager(cache.NewMemory(), Options{
		Secret:   "test-secret",
		TTL:      time.Hour,
		Username: "rm_user",
		Password: "password123",
	})
}

func TestManager_LoginLogout(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	token, user, err := m.Login(ctx, "rm_user", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != MockUserID || user.Username != "rm_user" {
		t.Errorf("unexpected user %+v", user)
	}

	got, err := m.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got != user {
		t.Errorf("CurrentUser() = %+v, want %+v", got, user)
	}

	if err := m.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := m.CurrentUser(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("after logout expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_LoginRejectsBadCredentials(t *testing.T) {
	m := newTestManager()

	_, _, err := m.Login(context.Background(), "rm_user", "nope")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestManager_CurrentUserForgedToken(t *testing.T) {
	m := newTestManager()

	forged := EncodeToken("made-up", "not-the-secret")
	if _, err := m.CurrentUser(context.Background(), forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	unknown := EncodeToken("made-up", "test-secret")
	if _, err := m.CurrentUser(context.Background(), unknown); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CorruptSession(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()
	m := NewManager(c, Options{Secret: "s", Username: "rm_user", Password: "p"})

	c.Set(ctx, sessionKeyPrefix+"abc", "{not json", 0)
	token := EncodeToken("abc", "s")

	if _, err := m.CurrentUser(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := c.Get(ctx, sessionKeyPrefix+"abc"); !errors.Is(err, cache.ErrMiss) {
		t.Error("corrupt session should have been removed")
	}
}

func TestManager_LogoutMalformedToken(t *testing.T) {
	m := newTestManager()
	if err := m.Logout(context.Background(), "garbage"); err != nil {
		t.Errorf("Logout() with malformed token should be a no-op, got %v", err)
	}
}
