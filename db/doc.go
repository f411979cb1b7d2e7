// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open(db.TypeSQLite, "bankchat.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - conversation: one thread per RM, named, with activity timestamps
  - message: ordered bubbles; content is the JSON-encoded MessageContent

# Relationships

	conversation 1──* message

Timestamps are stored as unix microseconds (BIGINT).
*/
package db
