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

func setupBadgerCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadger(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewBadger error = %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close error = %v", err)
		}
	})
	return c
}

func TestBadgerCacheRoundTrip(t *testing.T) {
	c := setupBadgerCache(t)
	ctx := context.Background()
	key := PageKey("user-1", 1, 10, "")

	if _, ok := c.GetPage(ctx, key); ok {
		t.Fatal("GetPage hit on empty cache")
	}

	page := &models.WatchlistPage{
		Data: []models.WatchlistItem{
			{
				ContentID:   "movie-1",
				ContentType: models.ContentTypeMovie,
				Title:       "The Long Haul",
				Genres:      []string{"thriller"},
				AddedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Pagination: models.NewPagination(1, 1, 10),
	}
	c.SetPage(ctx, key, page)

	got, ok := c.GetPage(ctx, key)
	if !ok {
		t.Fatal("GetPage miss after SetPage")
	}
	if len(got.Data) != 1 || got.Data[0].ContentID != "movie-1" {
		t.Errorf("GetPage data = %+v", got.Data)
	}
	if got.Data[0].Title != "The Long Haul" {
		t.Errorf("Title = %q", got.Data[0].Title)
	}
	if got.Pagination.Total != 1 {
		t.Errorf("Total = %d, want 1", got.Pagination.Total)
	}
}

func TestBadgerCacheInvalidateUser(t *testing.T) {
	c := setupBadgerCache(t)
	ctx := context.Background()

	c.SetPage(ctx, PageKey("user-1", 1, 10, ""), testPage(1))
	c.SetPage(ctx, PageKey("user-1", 1, 10, models.ContentTypeTVShow), testPage(1))
	c.SetPage(ctx, PageKey("user-2", 1, 10, ""), testPage(1))

	c.InvalidateUser(ctx, "user-1")

	if _, ok := c.GetPage(ctx, PageKey("user-1", 1, 10, "")); ok {
		t.Error("user-1 page survived invalidation")
	}
	if _, ok := c.GetPage(ctx, PageKey("user-1", 1, 10, models.ContentTypeTVShow)); ok {
		t.Error("user-1 filtered page survived invalidation")
	}
	if _, ok := c.GetPage(ctx, PageKey("user-2", 1, 10, "")); !ok {
		t.Error("user-2 page was dropped by user-1 invalidation")
	}
}

func TestBadgerCacheExpiry(t *testing.T) {
	c, err := NewBadger(t.TempDir(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewBadger error = %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close error = %v", err)
		}
	}()

	ctx := context.Background()
	key := PageKey("user-1", 1, 10, "")
	c.SetPage(ctx, key, testPage(1))

	if _, ok := c.GetPage(ctx, key); !ok {
		t.Fatal("GetPage miss before TTL elapsed")
	}
	time.Sleep(100 * time.Millisecond)
	if _, ok := c.GetPage(ctx, key); ok {
		t.Error("GetPage hit after TTL elapsed")
	}
}

func TestBadgerCacheClear(t *testing.T) {
	c := setupBadgerCache(t)
	ctx := context.Background()

	c.SetPage(ctx, PageKey("user-1", 1, 10, ""), testPage(1))
	c.Clear(ctx)
	if _, ok := c.GetPage(ctx, PageKey("user-1", 1, 10, "")); ok {
		t.Error("entry survived Clear")
	}
}
