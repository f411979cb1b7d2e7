// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configEnv = []string{
	"PORT", "DATABASE_TYPE", "DATABASE_URL", "SESSION_SECRET", "SESSION_TTL",
	"REDIS_URL", "COOKIE_SECURE", "ANALYTICS_URL", "ANALYTICS_TIMEOUT", "WAREHOUSE_PORT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("ANALYTICS_URL", "http://analytics.test/ask")
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != "bankchat.db" {
		t.Errorf("unexpected database defaults: %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.RMUsername != "rm_user" || cfg.RMPassword != "password123" {
		t.Errorf("unexpected RM credentials: %s/%s", cfg.RMUsername, cfg.RMPassword)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.Analytics.Timeout != 60*time.Second {
		t.Errorf("expected 60s analytics timeout, got %s", cfg.Analytics.Timeout)
	}
	if cfg.Analytics.DBConn.Port != 5439 {
		t.Errorf("expected warehouse port 5439, got %d", cfg.Analytics.DBConn.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info log level, got %s", cfg.LogLevel)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("ANALYTICS_TIMEOUT", "5s")
	t.Setenv("ANALYTICS_API_KEY", "k")
	t.Setenv("WAREHOUSE_HOST", "redshift.local")
	t.Setenv("METADATA_TABLE_ACCESS", "finance")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.Analytics.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Analytics.Timeout)
	}
	if cfg.Analytics.APIKey != "k" || cfg.Analytics.DBConn.Host != "redshift.local" {
		t.Errorf("analytics env not applied: %+v", cfg.Analytics)
	}
	if cfg.Analytics.Metadata.TableAccess == nil || *cfg.Analytics.Metadata.TableAccess != "finance" {
		t.Error("expected table access to be set")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-session-secret", "s1", "-analytics-url", "http://cli/ask"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.SessionSecret != "s1" {
		t.Errorf("expected CLI secret, got %s", cfg.SessionSecret)
	}
	if cfg.Analytics.URL != "http://cli/ask" {
		t.Errorf("expected CLI analytics URL, got %s", cfg.Analytics.URL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"ANALYTICS_URL": "http://a"}, "SESSION_SECRET"},
		{"missing analytics", map[string]string{"SESSION_SECRET": "s"}, "ANALYTICS_URL"},
		{"bad port", map[string]string{"SESSION_SECRET": "s", "ANALYTICS_URL": "http://a", "PORT": "abc"}, "PORT"},
		{"bad timeout", map[string]string{"SESSION_SECRET": "s", "ANALYTICS_URL": "http://a", "ANALYTICS_TIMEOUT": "soon"}, "ANALYTICS_TIMEOUT"},
		{"postgres without url", map[string]string{"SESSION_SECRET": "s", "ANALYTICS_URL": "http://a", "DATABASE_TYPE": "postgres"}, "database URL"},
		{"bad cookie flag", map[string]string{"SESSION_SECRET": "s", "ANALYTICS_URL": "http://a", "COOKIE_SECURE": "maybe"}, "COOKIE_SECURE"},
		{"unknown db type", map[string]string{"SESSION_SECRET": "s", "ANALYTICS_URL": "http://a", "DATABASE_TYPE": "mysql"}, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := ParseFlags([]string{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BANKCHAT_TEST_VALUE=from-file\nBANKCHAT_TEST_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BANKCHAT_TEST_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("BANKCHAT_TEST_VALUE") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv("BANKCHAT_TEST_VALUE"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("BANKCHAT_TEST_KEEP"); got != "from-env" {
		t.Errorf("existing env should win, got %q", got)
	}
}
