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
	"github.com/watchdeck/watchdeck/internal/models"
)

// writeRetryLimit bounds transaction retries on write conflicts. Every
// conflicted round means some concurrent writer committed, so the
// retries needed are bounded by the number of simultaneous writers
// touching one user's list.
const writeRetryLimit = 16

// AddItem inserts a watchlist entry for the user, creating the per-user
// aggregate on first add. It returns false when the content_id is already
// present for that user.
//
// The insert is conditional (ON CONFLICT DO NOTHING against the
// (user_id, content_id) primary key), so two concurrent adds of the same
// content_id resolve to exactly one winner; the loser observes
// inserted == false. The aggregate's updated_at only moves when the item
// actually landed, and both writes commit in one transaction.
//
// DuckDB's ON CONFLICT only absorbs rows visible in the transaction's
// snapshot; a row committed by a concurrent writer instead raises a
// constraint or commit error. AddItem retries those on a fresh
// snapshot, where a racing duplicate resolves to inserted == false and
// a racing aggregate write becomes a plain update.
func (db *DB) AddItem(ctx context.Context, userID string, entry models.WatchlistEntry) (inserted bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("add_item", time.Since(start), err) }()

	for attempt := 0; ; attempt++ {
		inserted, err = db.addItemTx(ctx, userID, entry)
		if err == nil || !isWriteConflict(err) || attempt >= writeRetryLimit {
			return inserted, err
		}
	}
}

// addItemTx runs a single conditional-insert-plus-upsert transaction.
func (db *DB) addItemTx(ctx context.Context, userID string, entry models.WatchlistEntry) (inserted bool, err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO watchlist_items (user_id, content_id, content_type, added_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, content_id) DO NOTHING`,
		userID, entry.ContentID, string(entry.ContentType), entry.AddedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert watchlist item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	if affected == 0 {
		// Already present; nothing changed, so leave updated_at alone.
		if err = tx.Rollback(); err != nil {
			return false, fmt.Errorf("failed to roll back no-op insert: %w", err)
		}
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO watchlists (user_id, created_at, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = excluded.updated_at`,
		userID, entry.AddedAt, entry.AddedAt)
	if err != nil {
		return false, fmt.Errorf("failed to upsert watchlist aggregate: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit watchlist add: %w", err)
	}
	return true, nil
}

// RemoveItem deletes the entry matching content_id for the user.
// It returns whether a deletion occurred, letting the caller distinguish
// "removed" from "was never there" without a separate existence check.
//
// Like AddItem, commit conflicts from concurrent removes of the same
// row retry on a fresh snapshot, where the loser sees the row already
// gone and reports removed == false.
func (db *DB) RemoveItem(ctx context.Context, userID, contentID string) (removed bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("remove_item", time.Since(start), err) }()

	for attempt := 0; ; attempt++ {
		removed, err = db.removeItemTx(ctx, userID, contentID)
		if err == nil || !isWriteConflict(err) || attempt >= writeRetryLimit {
			return removed, err
		}
	}
}

// removeItemTx runs a single delete-plus-touch transaction.
func (db *DB) removeItemTx(ctx context.Context, userID, contentID string) (removed bool, err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE user_id = ? AND content_id = ?`,
		userID, contentID)
	if err != nil {
		return false, fmt.Errorf("failed to delete watchlist item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		if err = tx.Rollback(); err != nil {
			return false, fmt.Errorf("failed to roll back no-op delete: %w", err)
		}
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE watchlists SET updated_at = ? WHERE user_id = ?`,
		time.Now().UTC(), userID)
	if err != nil {
		return false, fmt.Errorf("failed to touch watchlist aggregate: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit watchlist remove: %w", err)
	}
	return true, nil
}

// ItemExists reports whether the user's list already holds content_id.
// This is a fast-path check only; the uniqueness guarantee lives in
// AddItem's conditional insert.
func (db *DB) ItemExists(ctx context.Context, userID, contentID string) (exists bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("item_exists", time.Since(start), err) }()

	err = db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM watchlist_items WHERE user_id = ? AND content_id = ?
		)`,
		userID, contentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist item: %w", err)
	}
	return exists, nil
}

// GetItemsPaginated returns one page of the user's entries sorted by
// added_at descending (ties broken by insertion order via rowid), plus
// pagination metadata computed over the full, unfiltered item count.
// A user with no list gets an empty page, not an error.
func (db *DB) GetItemsPaginated(ctx context.Context, userID string, page, limit int) (entries []models.WatchlistEntry, pagination models.Pagination, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("get_items_paginated", time.Since(start), err) }()

	var total int
	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM watchlist_items WHERE user_id = ?`,
		userID).Scan(&total)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to count watchlist items: %w", err)
	}

	pagination = models.NewPagination(total, page, limit)
	if total == 0 {
		return []models.WatchlistEntry{}, pagination, nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT content_id, content_type, added_at
		 FROM watchlist_items
		 WHERE user_id = ?
		 ORDER BY added_at DESC, rowid ASC
		 LIMIT ? OFFSET ?`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to query watchlist items: %w", err)
	}
	defer closeWithLog(rows, "watchlist rows")

	entries = make([]models.WatchlistEntry, 0, limit)
	for rows.Next() {
		var entry models.WatchlistEntry
		var contentType string
		if err = rows.Scan(&entry.ContentID, &contentType, &entry.AddedAt); err != nil {
			return nil, models.Pagination{}, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		entry.ContentType = models.ContentType(contentType)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to read watchlist items: %w", err)
	}

	return entries, pagination, nil
}

// GetWatchlist returns the per-user aggregate row, or nil if the user has
// never added an item.
func (db *DB) GetWatchlist(ctx context.Context, userID string) (*models.Watchlist, error) {
	var wl models.Watchlist
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, created_at, updated_at FROM watchlists WHERE user_id = ?`,
		userID).Scan(&wl.UserID, &wl.CreatedAt, &wl.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query watchlist aggregate: %w", err)
	}
	return &wl, nil
}
