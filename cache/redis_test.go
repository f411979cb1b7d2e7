// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// newTestRedis connects to REDIS_URL or skips the test.
func newTestRedis(t *testing.T) (*Redis, string) {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	r, err := NewRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	prefix := "bankchat-test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		r.Del(context.Background(), prefix+"k", prefix+"forever", prefix+"short")
		r.Close()
	})
	return r, prefix
}

func TestNewRedis_BadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), ""); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := NewRedis(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for unparseable url")
	}
}

func TestRedis_SetGetDel(t *testing.T) {
	r, prefix := newTestRedis(t)
	ctx := context.Background()

	if _, err := r.Get(ctx, prefix+"k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := r.Set(ctx, prefix+"k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := r.Get(ctx, prefix+"k")
	if err != nil || got != "v" {
		t.Fatalf("Get() = %q, %v, want v", got, err)
	}

	n, err := r.Del(ctx, prefix+"k", prefix+"missing")
	if err != nil || n != 1 {
		t.Errorf("Del() = %d, %v, want 1", n, err)
	}
	if n, err := r.Del(ctx); err != nil || n != 0 {
		t.Errorf("Del() with no keys = %d, %v", n, err)
	}
}

func TestRedis_TTL(t *testing.T) {
	r, prefix := newTestRedis(t)
	ctx := context.Background()

	// Negative TTL is stored without expiry
	if err := r.Set(ctx, prefix+"forever", "v", -time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ttl := r.client.TTL(ctx, prefix+"forever").Val(); ttl != -1 {
		t.Errorf("expected no expiry, got %v", ttl)
	}

	if err := r.Set(ctx, prefix+"short", "v", 50*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if _, err := r.Get(ctx, prefix+"short"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after expiry, got %v", err)
	}
}
