// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"context"
	"testing"

	"github.com/watchdeck/watchdeck/internal/models"
)

func seededTestDB(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)
	if err := db.seedDemoData(); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}
	return db
}

func TestContentExists(t *testing.T) {
	db := seededTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		ref     models.ContentRef
		want    bool
		wantErr bool
	}{
		{"known movie", models.ContentRef{ContentID: "movie-1", ContentType: models.ContentTypeMovie}, true, false},
		{"known tv show", models.ContentRef{ContentID: "show-1", ContentType: models.ContentTypeTVShow}, true, false},
		{"movie id in tv table", models.ContentRef{ContentID: "movie-1", ContentType: models.ContentTypeTVShow}, false, false},
		{"unknown id", models.ContentRef{ContentID: "movie-999", ContentType: models.ContentTypeMovie}, false, false},
		{"invalid type", models.ContentRef{ContentID: "movie-1", ContentType: "podcast"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ContentExists(ctx, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ContentExists error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ContentExists = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBatchGetContent(t *testing.T) {
	db := seededTestDB(t)
	ctx := context.Background()

	refs := []models.ContentRef{
		{ContentID: "movie-1", ContentType: models.ContentTypeMovie},
		{ContentID: "movie-2", ContentType: models.ContentTypeMovie},
		{ContentID: "show-1", ContentType: models.ContentTypeTVShow},
		{ContentID: "movie-999", ContentType: models.ContentTypeMovie}, // not in catalog
	}

	details, err := db.BatchGetContent(ctx, refs)
	if err != nil {
		t.Fatalf("BatchGetContent error = %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("len(details) = %d, want 3", len(details))
	}
	if _, ok := details["movie-999"]; ok {
		t.Error("unresolvable reference appeared in result")
	}

	movie := details["movie-1"]
	if movie.Type != models.ContentTypeMovie {
		t.Errorf("movie-1 Type = %s, want movie", movie.Type)
	}
	if movie.Title != "The Long Haul" {
		t.Errorf("movie-1 Title = %q", movie.Title)
	}
	if len(movie.Genres) != 2 || movie.Genres[0] != "thriller" {
		t.Errorf("movie-1 Genres = %v", movie.Genres)
	}
	if len(movie.Actors) != 2 {
		t.Errorf("movie-1 Actors = %v", movie.Actors)
	}
	if movie.Director == "" || movie.ReleaseDate == "" {
		t.Errorf("movie-1 missing director or release date: %+v", movie)
	}

	show := details["show-1"]
	if show.Type != models.ContentTypeTVShow {
		t.Errorf("show-1 Type = %s, want tvshow", show.Type)
	}
	if show.EpisodeCount != 24 {
		t.Errorf("show-1 EpisodeCount = %d, want 24", show.EpisodeCount)
	}
}

func TestBatchGetContentEmpty(t *testing.T) {
	db := seededTestDB(t)

	details, err := db.BatchGetContent(context.Background(), nil)
	if err != nil {
		t.Fatalf("BatchGetContent(nil) error = %v", err)
	}
	if len(details) != 0 {
		t.Errorf("len(details) = %d, want 0", len(details))
	}
}

func TestUserExists(t *testing.T) {
	db := seededTestDB(t)
	ctx := context.Background()

	exists, err := db.UserExists(ctx, "user-1")
	if err != nil {
		t.Fatalf("UserExists error = %v", err)
	}
	if !exists {
		t.Error("UserExists = false for seeded user")
	}

	exists, err = db.UserExists(ctx, "nobody")
	if err != nil {
		t.Fatalf("UserExists error = %v", err)
	}
	if exists {
		t.Error("UserExists = true for unknown user")
	}
}

func TestSeedDemoDataIdempotent(t *testing.T) {
	db := seededTestDB(t)

	if err := db.seedDemoData(); err != nil {
		t.Fatalf("second seedDemoData error = %v", err)
	}

	var count int
	err := db.Conn().QueryRow("SELECT COUNT(*) FROM movies").Scan(&count)
	if err != nil {
		t.Fatalf("count movies error = %v", err)
	}
	if count != len(seedMovies) {
		t.Errorf("movies count = %d after reseed, want %d", count, len(seedMovies))
	}
}
