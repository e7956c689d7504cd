// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/watchdeck/watchdeck/internal/metrics"
	"github.com/watchdeck/watchdeck/internal/models"
)

// ContentExists reports whether the catalog holds the referenced content.
// Movies and TV shows live in separate tables, so the type picks the table.
func (db *DB) ContentExists(ctx context.Context, ref models.ContentRef) (exists bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("content_exists", time.Since(start), err) }()

	var query string
	switch ref.ContentType {
	case models.ContentTypeMovie:
		query = `SELECT EXISTS (SELECT 1 FROM movies WHERE id = ?)`
	case models.ContentTypeTVShow:
		query = `SELECT EXISTS (SELECT 1 FROM tv_shows WHERE id = ?)`
	default:
		return false, fmt.Errorf("unknown content type %q", ref.ContentType)
	}

	err = db.conn.QueryRowContext(ctx, query, ref.ContentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check content: %w", err)
	}
	return exists, nil
}

// BatchGetContent resolves catalog details for a set of references in at
// most two queries (one per content table), keyed by content ID. References
// the catalog no longer holds are simply absent from the result; callers
// decide what to do with the gap.
func (db *DB) BatchGetContent(ctx context.Context, refs []models.ContentRef) (details map[string]models.ContentDetails, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("batch_get_content", time.Since(start), err) }()

	details = make(map[string]models.ContentDetails, len(refs))
	if len(refs) == 0 {
		return details, nil
	}

	var movieIDs, showIDs []string
	for _, ref := range refs {
		switch ref.ContentType {
		case models.ContentTypeMovie:
			movieIDs = append(movieIDs, ref.ContentID)
		case models.ContentTypeTVShow:
			showIDs = append(showIDs, ref.ContentID)
		}
	}

	if err = db.fetchMovies(ctx, movieIDs, details); err != nil {
		return nil, err
	}
	if err = db.fetchTVShows(ctx, showIDs, details); err != nil {
		return nil, err
	}
	return details, nil
}

func (db *DB) fetchMovies(ctx context.Context, ids []string, out map[string]models.ContentDetails) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`SELECT id, title, description, genres, release_date, director, actors
		 FROM movies WHERE id IN (%s)`, placeholders(len(ids)))
	rows, err := db.conn.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query movies: %w", err)
	}
	defer closeWithLog(rows, "movie rows")

	for rows.Next() {
		var d models.ContentDetails
		var genresJSON, actorsJSON string
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &genresJSON,
			&d.ReleaseDate, &d.Director, &actorsJSON); err != nil {
			return fmt.Errorf("failed to scan movie: %w", err)
		}
		d.Type = models.ContentTypeMovie
		if err := decodeStringList(genresJSON, &d.Genres); err != nil {
			return fmt.Errorf("movie %s has malformed genres: %w", d.ID, err)
		}
		if err := decodeStringList(actorsJSON, &d.Actors); err != nil {
			return fmt.Errorf("movie %s has malformed actors: %w", d.ID, err)
		}
		out[d.ID] = d
	}
	return rows.Err()
}

func (db *DB) fetchTVShows(ctx context.Context, ids []string, out map[string]models.ContentDetails) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`SELECT id, title, description, genres, episode_count
		 FROM tv_shows WHERE id IN (%s)`, placeholders(len(ids)))
	rows, err := db.conn.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query tv shows: %w", err)
	}
	defer closeWithLog(rows, "tv show rows")

	for rows.Next() {
		var d models.ContentDetails
		var genresJSON string
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &genresJSON,
			&d.EpisodeCount); err != nil {
			return fmt.Errorf("failed to scan tv show: %w", err)
		}
		d.Type = models.ContentTypeTVShow
		if err := decodeStringList(genresJSON, &d.Genres); err != nil {
			return fmt.Errorf("tv show %s has malformed genres: %w", d.ID, err)
		}
		out[d.ID] = d
	}
	return rows.Err()
}

// placeholders returns "?, ?, ..." with n markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toAnySlice(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func decodeStringList(raw string, dst *[]string) error {
	if raw == "" {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
