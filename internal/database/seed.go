// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/models"
)

type seedUser struct {
	id       string
	username string
}

var seedUsers = []seedUser{
	{"user-1", "alice"},
	{"user-2", "bob"},
	{"user-3", "carol"},
}

var seedMovies = []models.ContentDetails{
	{
		ID:          "movie-1",
		Title:       "The Long Haul",
		Description: "A trucker crosses the continent with a cargo he was never told about.",
		Genres:      []string{"thriller", "drama"},
		ReleaseDate: "2019-03-14",
		Director:    "M. Okafor",
		Actors:      []string{"J. Reyes", "T. Lindqvist"},
	},
	{
		ID:          "movie-2",
		Title:       "Glass Harbor",
		Description: "Two rival shipwrights compete to build the last sailing ferry.",
		Genres:      []string{"drama"},
		ReleaseDate: "2021-09-02",
		Director:    "H. Braun",
		Actors:      []string{"A. Fontaine", "K. Osei", "L. Marsh"},
	},
	{
		ID:          "movie-3",
		Title:       "Signal Lost",
		Description: "A radio operator picks up a broadcast from a station that burned down decades ago.",
		Genres:      []string{"mystery", "horror"},
		ReleaseDate: "2023-10-27",
		Director:    "S. Ito",
		Actors:      []string{"P. Novak"},
	},
}

var seedTVShows = []models.ContentDetails{
	{
		ID:           "show-1",
		Title:        "Northbound",
		Description:  "A ranger patrols the last unmapped stretch of the border forest.",
		Genres:       []string{"drama", "crime"},
		EpisodeCount: 24,
	},
	{
		ID:           "show-2",
		Title:        "Kitchen Shift",
		Description:  "One restaurant, one night per episode, everything in real time.",
		Genres:       []string{"comedy"},
		EpisodeCount: 16,
	},
}

// seedDemoData loads a small fixed catalog and user set so a fresh install
// has something to exercise the API against. All inserts are conflict-safe,
// so reseeding an existing database is a no-op.
func (db *DB) seedDemoData() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, u := range seedUsers {
		if err := db.CreateUser(ctx, u.id, u.username); err != nil {
			return err
		}
	}

	for _, m := range seedMovies {
		genres, err := json.Marshal(m.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode genres for %s: %w", m.ID, err)
		}
		actors, err := json.Marshal(m.Actors)
		if err != nil {
			return fmt.Errorf("failed to encode actors for %s: %w", m.ID, err)
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO movies (id, title, description, genres, release_date, director, actors)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO NOTHING`,
			m.ID, m.Title, m.Description, string(genres), m.ReleaseDate, m.Director, string(actors)); err != nil {
			return fmt.Errorf("failed to seed movie %s: %w", m.ID, err)
		}
	}

	for _, s := range seedTVShows {
		genres, err := json.Marshal(s.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode genres for %s: %w", s.ID, err)
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO tv_shows (id, title, description, genres, episode_count)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Title, s.Description, string(genres), s.EpisodeCount); err != nil {
			return fmt.Errorf("failed to seed tv show %s: %w", s.ID, err)
		}
	}

	logging.Info().
		Int("users", len(seedUsers)).
		Int("movies", len(seedMovies)).
		Int("tv_shows", len(seedTVShows)).
		Msg("Seeded demo data")
	return nil
}
