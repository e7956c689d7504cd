// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package models

import (
	"testing"
)

func TestContentTypeValid(t *testing.T) {
	tests := []struct {
		input ContentType
		want  bool
	}{
		{ContentTypeMovie, true},
		{ContentTypeTVShow, true},
		{ContentType(""), false},
		{ContentType("series"), false},
		{ContentType("Movie"), false},
	}

	for _, tt := range tests {
		if got := tt.input.Valid(); got != tt.want {
			t.Errorf("ContentType(%q).Valid() = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		limit     int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty list", 0, 1, 10, 0, false, false},
		{"first of three", 25, 1, 10, 3, true, false},
		{"middle of three", 25, 2, 10, 3, true, true},
		{"last of three", 25, 3, 10, 3, false, true},
		{"exact fit", 20, 2, 10, 2, false, true},
		{"single item", 1, 1, 10, 1, false, false},
		{"past the end", 5, 9, 10, 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			if p.Total != tt.total {
				t.Errorf("Total = %d, want %d", p.Total, tt.total)
			}
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", p.HasNextPage, tt.wantNext)
			}
			if p.HasPreviousPage != tt.wantPrev {
				t.Errorf("HasPreviousPage = %v, want %v", p.HasPreviousPage, tt.wantPrev)
			}
		})
	}
}
