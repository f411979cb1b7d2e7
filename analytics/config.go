// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analytics

import "time"

// DBConnConfig is forwarded to the analytics service so it can reach the
// warehouse it generates SQL for.
type DBConnConfig struct {
	DBType   string `json:"db_type"`
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	Port     int    `json:"port"`
}

// Metadata points the service at the schema description files.
type Metadata struct {
	S3BucketName string  `json:"s3_bucket_name"`
	IsMeta       bool    `json:"is_meta"`
	TableMeta    string  `json:"table_meta"`
	ColumnMeta   string  `json:"column_meta"`
	MetricMeta   string  `json:"metric_meta"`
	TableAccess  *string `json:"table_access"`
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration

	Persona          string
	SQLModelID       string
	ChatModelID      string
	EmbeddingModelID string
	Approach         string
	Session          string

	DBConn   DBConnConfig
	Metadata Metadata
}

// DefaultConfig returns the request profile used when nothing is overridden.
// URL, API key and warehouse credentials have no defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:          60 * time.Second,
		Persona:          "admin",
		SQLModelID:       "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		ChatModelID:      "us.anthropic.claude-3-5-haiku-20241022-v1:0",
		EmbeddingModelID: "cohere.embed-multilingual-v3",
		Approach:         "few_shot",
		Session:          "new",
		DBConn: DBConnConfig{
			DBType: "redshift",
			Port:   5439,
		},
		Metadata: Metadata{
			IsMeta: true,
		},
	}
}
