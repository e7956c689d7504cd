// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

// Package models defines the data structures shared across Watchdeck:
// watchlist entries and aggregates, content catalog details, pagination
// metadata, and the standard API response envelope.
package models

import (
	"math"
	"time"
)

// ContentType distinguishes which catalog a watchlist entry refers to.
type ContentType string

const (
	// ContentTypeMovie marks an entry referencing the movie catalog.
	ContentTypeMovie ContentType = "movie"

	// ContentTypeTVShow marks an entry referencing the TV show catalog.
	ContentTypeTVShow ContentType = "tvshow"
)

// Valid reports whether the content type is one of the known values.
func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeTVShow
}

// WatchlistEntry is one item a user has added to their list.
// AddedAt is assigned by the engine at insertion time, never by the caller;
// it is both the list order and the sort key for rendered pages.
type WatchlistEntry struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	AddedAt     time.Time   `json:"added_at"`
}

// Watchlist is the per-user aggregate. One exists per user that has ever
// added an item; it is created lazily on the first successful add.
// UpdatedAt changes on every successful add or remove and is the source of
// truth for "has this list changed since some cached snapshot".
type Watchlist struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentDetails carries display metadata resolved from the content catalog.
// Movie-specific and show-specific fields are populated according to Type.
type ContentDetails struct {
	ID          string      `json:"id"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Genres      []string    `json:"genres"`

	// Movie fields
	ReleaseDate string   `json:"release_date,omitempty"`
	Director    string   `json:"director,omitempty"`
	Actors      []string `json:"actors,omitempty"`

	// TV show fields
	EpisodeCount int `json:"episode_count,omitempty"`
}

// ContentRef identifies one catalog item for batched lookups.
type ContentRef struct {
	ContentID   string
	ContentType ContentType
}

// WatchlistItem is one rendered row of a watchlist page: the raw entry
// joined with its resolved catalog details.
type WatchlistItem struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Genres      []string    `json:"genres"`
	AddedAt     time.Time   `json:"added_at"`

	ReleaseDate  string   `json:"release_date,omitempty"`
	Director     string   `json:"director,omitempty"`
	Actors       []string `json:"actors,omitempty"`
	EpisodeCount int      `json:"episode_count,omitempty"`
}

// Pagination carries page math for a rendered list page.
// Pages are 1-indexed.
type Pagination struct {
	Total           int  `json:"total"`
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	TotalPages      int  `json:"total_pages"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// NewPagination computes pagination metadata for the given total item count.
// An empty list yields total_pages 0 with both direction flags false.
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Total:           total,
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// WatchlistPage is a fully rendered, content-enriched page of a user's
// watchlist. This is both the API response payload and the unit of caching.
type WatchlistPage struct {
	Data       []WatchlistItem `json:"data"`
	Pagination Pagination      `json:"pagination"`
}
