// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadDotEnv reads an optional .env file, then ParseFlags returns a Config
struct with all settings:

	_ = cliparse.LoadDotEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                Server port
	-d                Database URL or sqlite file
	-t                Database type (sqlite or postgres)
	-redis            Redis URL for sessions
	-analytics-url    Text-to-SQL endpoint
	-session-secret   Session signing secret
	-log-level        debug, info, warn or error

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p (default 3318)
	DATABASE_URL    → -d (default bankchat.db for sqlite)
	DATABASE_TYPE   → -t (default sqlite)
	REDIS_URL       → -redis
	ANALYTICS_URL   → -analytics-url
	SESSION_SECRET  → -session-secret
	LOG_LEVEL       → -log-level

Environment only:

	SESSION_TTL                   session lifetime (default 24h)
	RM_USERNAME, RM_PASSWORD      mock credentials (rm_user / password123)
	ANALYTICS_API_KEY             sent as x-api-key
	ANALYTICS_TIMEOUT             outbound timeout (default 60s)
	ANALYTICS_PERSONA, ANALYTICS_APPROACH, ANALYTICS_SESSION
	ANALYTICS_SQL_MODEL_ID, ANALYTICS_CHAT_MODEL_ID, ANALYTICS_EMBEDDING_MODEL_ID
	WAREHOUSE_TYPE, WAREHOUSE_HOST, WAREHOUSE_PORT
	WAREHOUSE_USER, WAREHOUSE_PASSWORD, WAREHOUSE_DATABASE
	METADATA_S3_BUCKET, METADATA_IS_META, METADATA_TABLE_ACCESS
	METADATA_TABLE_META, METADATA_COLUMN_META, METADATA_METRIC_META
	GEMINI_API_KEY, GEMINI_MODEL  customer summaries (disabled without a key)

CLI flags take precedence over environment variables, and variables already
set in the environment take precedence over the .env file.

# Validation

ParseFlags returns an error if required values are missing:

  - SESSION_SECRET must be provided
  - ANALYTICS_URL must be provided
  - DATABASE_URL must be provided for postgres
*/
package cliparse
