// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/watchdeck/watchdeck/internal/metrics"
)

// UserExists reports whether the user directory contains userID.
func (db *DB) UserExists(ctx context.Context, userID string) (exists bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("user_exists", time.Since(start), err) }()

	err = db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`,
		userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a user into the directory. Existing IDs are left
// untouched.
func (db *DB) CreateUser(ctx context.Context, userID, username string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username) VALUES (?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		userID, username)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
