// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"context"
	"fmt"
	"time"
)

// Schema notes:
//
//   - watchlist_items carries PRIMARY KEY (user_id, content_id). This is the
//     durable uniqueness constraint that backs the atomic conditional insert
//     in AddItem: a content_id appears at most once per user regardless of
//     content type.
//   - watchlists is the per-user aggregate row, created lazily inside the
//     same transaction as the first successful add. updated_at changes on
//     every successful add or remove.
//   - movies, tv_shows, and users back the content catalog and the user
//     directory. Genre and actor lists are stored as JSON text.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR PRIMARY KEY,
		username VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS movies (
		id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT '',
		genres VARCHAR NOT NULL DEFAULT '[]',
		release_date VARCHAR NOT NULL DEFAULT '',
		director VARCHAR NOT NULL DEFAULT '',
		actors VARCHAR NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS tv_shows (
		id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL,
		description VARCHAR NOT NULL DEFAULT '',
		genres VARCHAR NOT NULL DEFAULT '[]',
		episode_count INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS watchlists (
		user_id VARCHAR PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS watchlist_items (
		user_id VARCHAR NOT NULL,
		content_id VARCHAR NOT NULL,
		content_type VARCHAR NOT NULL,
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, content_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_watchlist_items_user_added
		ON watchlist_items (user_id, added_at)`,
}

// createTables creates all tables and indexes if they do not exist.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
