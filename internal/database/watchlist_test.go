// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/watchdeck/watchdeck/internal/models"
)

func mustAdd(t *testing.T, db *DB, userID, contentID string, contentType models.ContentType, addedAt time.Time) {
	t.Helper()
	inserted, err := db.AddItem(context.Background(), userID, models.WatchlistEntry{
		ContentID:   contentID,
		ContentType: contentType,
		AddedAt:     addedAt,
	})
	if err != nil {
		t.Fatalf("AddItem(%s, %s) error = %v", userID, contentID, err)
	}
	if !inserted {
		t.Fatalf("AddItem(%s, %s) inserted = false, want true", userID, contentID)
	}
}

func TestAddItemDuplicate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustAdd(t, db, "user-1", "movie-1", models.ContentTypeMovie, now)

	// Second add of the same content ID must be rejected, even with a
	// different content type.
	for _, contentType := range []models.ContentType{models.ContentTypeMovie, models.ContentTypeTVShow} {
		inserted, err := db.AddItem(ctx, "user-1", models.WatchlistEntry{
			ContentID:   "movie-1",
			ContentType: contentType,
			AddedAt:     now.Add(time.Minute),
		})
		if err != nil {
			t.Fatalf("duplicate AddItem error = %v", err)
		}
		if inserted {
			t.Errorf("duplicate AddItem (type %s) inserted = true, want false", contentType)
		}
	}

	// Another user's list is unaffected by the first user's entries.
	inserted, err := db.AddItem(ctx, "user-2", models.WatchlistEntry{
		ContentID:   "movie-1",
		ContentType: models.ContentTypeMovie,
		AddedAt:     now,
	})
	if err != nil {
		t.Fatalf("AddItem for second user error = %v", err)
	}
	if !inserted {
		t.Error("AddItem for second user inserted = false, want true")
	}
}

func TestAddItemConcurrent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	const attempts = 10
	results := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := db.AddItem(ctx, "user-1", models.WatchlistEntry{
				ContentID:   "movie-1",
				ContentType: models.ContentTypeMovie,
				AddedAt:     now,
			})
			if err != nil {
				t.Errorf("concurrent AddItem error = %v", err)
				return
			}
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for inserted := range results {
		if inserted {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("concurrent adds produced %d winners, want exactly 1", winners)
	}

	entries, _, err := db.GetItemsPaginated(ctx, "user-1", 1, 10)
	if err != nil {
		t.Fatalf("GetItemsPaginated error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("list holds %d entries after concurrent adds, want 1", len(entries))
	}
}

func TestAddItemConcurrentDistinct(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Distinct content IDs for one user race only on the aggregate row;
	// all of them must land.
	const adds = 8
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inserted, err := db.AddItem(ctx, "user-1", models.WatchlistEntry{
				ContentID:   fmt.Sprintf("movie-%d", i),
				ContentType: models.ContentTypeMovie,
				AddedAt:     now,
			})
			if err != nil {
				errs <- err
				return
			}
			if !inserted {
				errs <- fmt.Errorf("movie-%d inserted = false, want true", i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	entries, _, err := db.GetItemsPaginated(ctx, "user-1", 1, 20)
	if err != nil {
		t.Fatalf("GetItemsPaginated error = %v", err)
	}
	if len(entries) != adds {
		t.Errorf("list holds %d entries after concurrent distinct adds, want %d", len(entries), adds)
	}

	wl, err := db.GetWatchlist(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetWatchlist error = %v", err)
	}
	if wl == nil {
		t.Fatal("GetWatchlist = nil after concurrent adds")
	}
}

func TestRemoveItemConcurrent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mustAdd(t, db, "user-1", "movie-1", models.ContentTypeMovie, time.Now().UTC())

	const attempts = 8
	results := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			removed, err := db.RemoveItem(ctx, "user-1", "movie-1")
			if err != nil {
				t.Errorf("concurrent RemoveItem error = %v", err)
				return
			}
			results <- removed
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for removed := range results {
		if removed {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("concurrent removes produced %d winners, want exactly 1", winners)
	}
}

func TestRemoveItem(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustAdd(t, db, "user-1", "movie-1", models.ContentTypeMovie, now)

	removed, err := db.RemoveItem(ctx, "user-1", "movie-1")
	if err != nil {
		t.Fatalf("RemoveItem error = %v", err)
	}
	if !removed {
		t.Error("RemoveItem removed = false, want true")
	}

	// Removing again reports that nothing was there.
	removed, err = db.RemoveItem(ctx, "user-1", "movie-1")
	if err != nil {
		t.Fatalf("second RemoveItem error = %v", err)
	}
	if removed {
		t.Error("second RemoveItem removed = true, want false")
	}

	// Once removed, the same content can be re-added.
	mustAdd(t, db, "user-1", "movie-1", models.ContentTypeMovie, now.Add(time.Minute))
}

func TestItemExists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	exists, err := db.ItemExists(ctx, "user-1", "movie-1")
	if err != nil {
		t.Fatalf("ItemExists error = %v", err)
	}
	if exists {
		t.Error("ItemExists = true for absent item")
	}

	mustAdd(t, db, "user-1", "movie-1", models.ContentTypeMovie, time.Now().UTC())

	exists, err = db.ItemExists(ctx, "user-1", "movie-1")
	if err != nil {
		t.Fatalf("ItemExists error = %v", err)
	}
	if !exists {
		t.Error("ItemExists = false for present item")
	}
}

func TestGetItemsPaginated(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 25 items added at increasing timestamps; newest comes back first.
	for i := 0; i < 25; i++ {
		mustAdd(t, db, "user-1", fmt.Sprintf("movie-%02d", i), models.ContentTypeMovie,
			base.Add(time.Duration(i)*time.Minute))
	}

	tests := []struct {
		name      string
		page      int
		limit     int
		wantLen   int
		wantFirst string
		wantTotal int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"first page", 1, 10, 10, "movie-24", 25, 3, true, false},
		{"middle page", 2, 10, 10, "movie-14", 25, 3, true, true},
		{"last partial page", 3, 10, 5, "movie-04", 25, 3, false, true},
		{"past the end", 4, 10, 0, "", 25, 3, false, true},
		{"single page", 1, 100, 25, "movie-24", 25, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, pagination, err := db.GetItemsPaginated(ctx, "user-1", tt.page, tt.limit)
			if err != nil {
				t.Fatalf("GetItemsPaginated error = %v", err)
			}
			if len(entries) != tt.wantLen {
				t.Errorf("len(entries) = %d, want %d", len(entries), tt.wantLen)
			}
			if tt.wantLen > 0 && entries[0].ContentID != tt.wantFirst {
				t.Errorf("first entry = %s, want %s", entries[0].ContentID, tt.wantFirst)
			}
			if pagination.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", pagination.Total, tt.wantTotal)
			}
			if pagination.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", pagination.TotalPages, tt.wantPages)
			}
			if pagination.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", pagination.HasNextPage, tt.wantNext)
			}
			if pagination.HasPreviousPage != tt.wantPrev {
				t.Errorf("HasPreviousPage = %v, want %v", pagination.HasPreviousPage, tt.wantPrev)
			}
		})
	}
}

func TestGetItemsPaginatedTieBreak(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Identical timestamps fall back to insertion order, so pages stay
	// stable across repeated reads.
	for i := 0; i < 6; i++ {
		mustAdd(t, db, "user-1", fmt.Sprintf("movie-%d", i), models.ContentTypeMovie, ts)
	}

	first, _, err := db.GetItemsPaginated(ctx, "user-1", 1, 3)
	if err != nil {
		t.Fatalf("GetItemsPaginated error = %v", err)
	}
	second, _, err := db.GetItemsPaginated(ctx, "user-1", 1, 3)
	if err != nil {
		t.Fatalf("GetItemsPaginated error = %v", err)
	}
	for i := range first {
		if first[i].ContentID != second[i].ContentID {
			t.Fatalf("unstable ordering at index %d: %s vs %s",
				i, first[i].ContentID, second[i].ContentID)
		}
	}
}

func TestGetItemsPaginatedEmptyList(t *testing.T) {
	db := setupTestDB(t)

	entries, pagination, err := db.GetItemsPaginated(context.Background(), "user-without-list", 1, 10)
	if err != nil {
		t.Fatalf("GetItemsPaginated error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
	if pagination.Total != 0 || pagination.TotalPages != 0 {
		t.Errorf("pagination = %+v, want zero totals", pagination)
	}
	if pagination.HasNextPage || pagination.HasPreviousPage {
		t.Errorf("pagination flags = %+v, want both false", pagination)
	}
}

func TestGetWatchlistAggregate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	wl, err := db.GetWatchlist(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetWatchlist error = %v", err)
	}
	if wl != nil {
		t.Fatalf("GetWatchlist = %+v before any add, want nil", wl)
	}

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)
	mustAdd(t, db, "user-1", "movie-1", models.ContentTypeMovie, first)
	mustAdd(t, db, "user-1", "movie-2", models.ContentTypeMovie, later)

	wl, err = db.GetWatchlist(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetWatchlist error = %v", err)
	}
	if wl == nil {
		t.Fatal("GetWatchlist = nil after adds")
	}
	if wl.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", wl.UserID)
	}
	if !wl.CreatedAt.Equal(first) {
		t.Errorf("CreatedAt = %v, want %v", wl.CreatedAt, first)
	}
	if !wl.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", wl.UpdatedAt, later)
	}

	// A rejected duplicate must not move updated_at.
	inserted, err := db.AddItem(ctx, "user-1", models.WatchlistEntry{
		ContentID:   "movie-1",
		ContentType: models.ContentTypeMovie,
		AddedAt:     later.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("duplicate AddItem error = %v", err)
	}
	if inserted {
		t.Fatal("duplicate AddItem inserted = true")
	}
	wl, err = db.GetWatchlist(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetWatchlist error = %v", err)
	}
	if !wl.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt moved to %v after rejected duplicate, want %v", wl.UpdatedAt, later)
	}
}
