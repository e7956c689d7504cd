// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package cache

import (
	"fmt"

	"github.com/watchdeck/watchdeck/internal/models"
)

// PageKey builds the cache key for one page of one user's list. Every
// parameter that changes the response participates in the key, so two
// queries share an entry only when their results are identical.
//
// An empty type filter is keyed as "all" to keep the key shape uniform.
func PageKey(userID string, page, limit int, typeFilter models.ContentType) string {
	t := string(typeFilter)
	if t == "" {
		t = "all"
	}
	return fmt.Sprintf("watchlist:%s:page=%d:limit=%d:type=%s", userID, page, limit, t)
}

// UserPrefix is the common prefix of every key PageKey produces for
// userID. Invalidation works by dropping all keys under this prefix.
func UserPrefix(userID string) string {
	return "watchlist:" + userID + ":"
}
