// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"conversation", "message"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestCreateSchema_SenderCheck(t *testing.T) {
	conn, err := Open(TypeSQLite, filepath.Join(t.TempDir(), "check.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	if _, err := conn.Exec(`INSERT INTO conversation (id, user_id, name, created_at, last_activity) VALUES ('c1', 'u1', 'n', 1, 1)`); err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`INSERT INTO message (id, conversation_id, seq, sender, content, created_at) VALUES ('m1', 'c1', 1, 'system', '{}', 1)`)
	if err == nil {
		t.Error("expected CHECK constraint to reject unknown sender")
	}
}
