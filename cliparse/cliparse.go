// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/bankchat/analytics"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	SessionSecret string
	SessionTTL    time.Duration
	RMUsername    string
	RMPassword    string
	RedisURL      string
	SecureCookie  bool

	Analytics analytics.Config

	GeminiAPIKey string
	GeminiModel  string

	LogLevel slog.Level
}

// LoadDotEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	fs := flag.NewFlagSet("bankchat", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or sqlite file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for sessions (default in-memory)")
	fs.StringVar(&cfg.Analytics.URL, "analytics-url", "", "Text-to-SQL service endpoint")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envString("DATABASE_TYPE", "sqlite")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "bankchat.db"
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	ttl, err := envDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = ttl
	cfg.RMUsername = envString("RM_USERNAME", "rm_user")
	cfg.RMPassword = envString("RM_PASSWORD", "password123")
	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.New("invalid COOKIE_SECURE env variable")
		}
		cfg.SecureCookie = secure
	}

	if cfg.Analytics, err = parseAnalytics(cfg.Analytics.URL); err != nil {
		return Config{}, err
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = envString("GEMINI_MODEL", "gemini-2.0-flash")

	if logLevel == "" {
		logLevel = envString("LOG_LEVEL", "info")
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	return cfg, nil
}

func parseAnalytics(url string) (analytics.Config, error) {
	a := analytics.DefaultConfig()

	a.URL = url
	if a.URL == "" {
		a.URL = os.Getenv("ANALYTICS_URL")
	}
	if a.URL == "" {
		return a, errors.New("ANALYTICS_URL required")
	}
	a.APIKey = os.Getenv("ANALYTICS_API_KEY")

	timeout, err := envDuration("ANALYTICS_TIMEOUT", a.Timeout)
	if err != nil {
		return a, err
	}
	a.Timeout = timeout

	a.Persona = envString("ANALYTICS_PERSONA", a.Persona)
	a.SQLModelID = envString("ANALYTICS_SQL_MODEL_ID", a.SQLModelID)
	a.ChatModelID = envString("ANALYTICS_CHAT_MODEL_ID", a.ChatModelID)
	a.EmbeddingModelID = envString("ANALYTICS_EMBEDDING_MODEL_ID", a.EmbeddingModelID)
	a.Approach = envString("ANALYTICS_APPROACH", a.Approach)
	a.Session = envString("ANALYTICS_SESSION", a.Session)

	a.DBConn.DBType = envString("WAREHOUSE_TYPE", a.DBConn.DBType)
	a.DBConn.Host = os.Getenv("WAREHOUSE_HOST")
	a.DBConn.User = os.Getenv("WAREHOUSE_USER")
	a.DBConn.Password = os.Getenv("WAREHOUSE_PASSWORD")
	a.DBConn.Database = os.Getenv("WAREHOUSE_DATABASE")
	port, err := envInt("WAREHOUSE_PORT", a.DBConn.Port)
	if err != nil {
		return a, err
	}
	a.DBConn.Port = port

	a.Metadata.S3BucketName = os.Getenv("METADATA_S3_BUCKET")
	a.Metadata.TableMeta = os.Getenv("METADATA_TABLE_META")
	a.Metadata.ColumnMeta = os.Getenv("METADATA_COLUMN_META")
	a.Metadata.MetricMeta = os.Getenv("METADATA_METRIC_META")
	if v := os.Getenv("METADATA_TABLE_ACCESS"); v != "" {
		a.Metadata.TableAccess = &v
	}
	if v := os.Getenv("METADATA_IS_META"); v != "" {
		isMeta, err := strconv.ParseBool(v)
		if err != nil {
			return a, errors.New("invalid METADATA_IS_META env variable")
		}
		a.Metadata.IsMeta = isMeta
	}

	return a, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
