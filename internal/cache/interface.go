// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

// Package cache provides the read-through page cache for assembled
// watchlist pages, with interchangeable backends (in-process memory,
// shared redis, persistent badger, or disabled).
//
// The cache is strictly an optimization: every method absorbs backend
// failures internally, logging and counting them instead of returning
// errors, so a broken cache never breaks a read or write path.
package cache

import (
	"context"

	"github.com/watchdeck/watchdeck/internal/models"
)

// PageCache stores fully assembled watchlist pages keyed by the exact
// query shape (user, page, limit, type filter).
//
// Returned pages are shared; callers must not mutate them.
type PageCache interface {
	// GetPage returns the cached page for key, or ok == false on a miss.
	GetPage(ctx context.Context, key string) (page *models.WatchlistPage, ok bool)

	// SetPage stores a page under key with the backend's configured TTL.
	// Empty pages are cached like any other.
	SetPage(ctx context.Context, key string, page *models.WatchlistPage)

	// InvalidateUser drops every cached page belonging to userID.
	InvalidateUser(ctx context.Context, userID string)

	// Clear drops everything.
	Clear(ctx context.Context)

	// Backend names the active backend for logs and metrics.
	Backend() string

	// Close releases backend resources.
	Close() error
}
