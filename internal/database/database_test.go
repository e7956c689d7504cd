// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"context"
	"testing"

	"github.com/watchdeck/watchdeck/internal/config"
)

// testDBSemaphore serializes test database lifecycles. Concurrent DuckDB
// CGO calls from parallel tests can hang under CI resource pressure, so
// only one test holds an open connection at a time.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory test database and registers cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      "",
		MaxMemory: "512MB",
		Threads:   2,
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

func TestNewInMemory(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if db.Conn() == nil {
		t.Fatal("Conn() returned nil")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	// Running the migration pass again must be a no-op.
	if err := db.runMigrations(); err != nil {
		t.Fatalf("second runMigrations() error = %v", err)
	}
}
