// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/watchdeck/watchdeck/internal/models"
)

func testPage(total int) *models.WatchlistPage {
	return &models.WatchlistPage{
		Data:       []models.WatchlistItem{},
		Pagination: models.NewPagination(total, 1, 10),
	}
}

func TestPageKey(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		page       int
		limit      int
		typeFilter models.ContentType
		want       string
	}{
		{"no filter", "user-1", 1, 10, "", "watchlist:user-1:page=1:limit=10:type=all"},
		{"movie filter", "user-1", 2, 25, models.ContentTypeMovie, "watchlist:user-1:page=2:limit=25:type=movie"},
		{"tvshow filter", "user-2", 1, 10, models.ContentTypeTVShow, "watchlist:user-2:page=1:limit=10:type=tvshow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageKey(tt.userID, tt.page, tt.limit, tt.typeFilter)
			if got != tt.want {
				t.Errorf("PageKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageKeyUnderUserPrefix(t *testing.T) {
	key := PageKey("user-1", 3, 10, models.ContentTypeMovie)
	prefix := UserPrefix("user-1")
	if len(key) < len(prefix) || key[:len(prefix)] != prefix {
		t.Errorf("key %q does not start with prefix %q", key, prefix)
	}
	// A different user's prefix must not match.
	other := UserPrefix("user-10")
	if key[:len(other)] == other {
		t.Errorf("key %q matches foreign prefix %q", key, other)
	}
}

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()
	key := PageKey("user-1", 1, 10, "")

	if _, ok := c.GetPage(ctx, key); ok {
		t.Fatal("GetPage hit on empty cache")
	}

	c.SetPage(ctx, key, testPage(5))
	page, ok := c.GetPage(ctx, key)
	if !ok {
		t.Fatal("GetPage miss after SetPage")
	}
	if page.Pagination.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Pagination.Total)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	ctx := context.Background()
	key := PageKey("user-1", 1, 10, "")

	c.SetPage(ctx, key, testPage(1))
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.GetPage(ctx, key); ok {
		t.Error("GetPage hit on expired entry")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expired read, want 0", c.Len())
	}
}

func TestMemoryCacheInvalidateUser(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	c.SetPage(ctx, PageKey("user-1", 1, 10, ""), testPage(1))
	c.SetPage(ctx, PageKey("user-1", 2, 10, models.ContentTypeMovie), testPage(1))
	c.SetPage(ctx, PageKey("user-2", 1, 10, ""), testPage(1))

	c.InvalidateUser(ctx, "user-1")

	if _, ok := c.GetPage(ctx, PageKey("user-1", 1, 10, "")); ok {
		t.Error("user-1 page survived invalidation")
	}
	if _, ok := c.GetPage(ctx, PageKey("user-1", 2, 10, models.ContentTypeMovie)); ok {
		t.Error("user-1 filtered page survived invalidation")
	}
	if _, ok := c.GetPage(ctx, PageKey("user-2", 1, 10, "")); !ok {
		t.Error("user-2 page was dropped by user-1 invalidation")
	}
}

func TestMemoryCacheSweep(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	ctx := context.Background()

	c.SetPage(ctx, PageKey("user-1", 1, 10, ""), testPage(1))
	c.SetPage(ctx, PageKey("user-2", 1, 10, ""), testPage(1))
	time.Sleep(30 * time.Millisecond)
	c.SetPage(ctx, PageKey("user-3", 1, 10, ""), testPage(1))

	dropped := c.Sweep()
	if dropped != 2 {
		t.Errorf("Sweep dropped %d entries, want 2", dropped)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d after sweep, want 1", c.Len())
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	c.SetPage(ctx, PageKey("user-1", 1, 10, ""), testPage(1))
	c.Clear(ctx)
	if c.Len() != 0 {
		t.Errorf("Len = %d after clear, want 0", c.Len())
	}
}

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()
	key := PageKey("user-1", 1, 10, "")

	c.SetPage(ctx, key, testPage(1))
	if _, ok := c.GetPage(ctx, key); ok {
		t.Error("noop cache returned a hit")
	}
	if c.Backend() != "none" {
		t.Errorf("Backend = %q, want none", c.Backend())
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close error = %v", err)
	}
}
