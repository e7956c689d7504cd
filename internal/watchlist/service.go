// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

// Package watchlist implements the list engine: membership rules for
// per-user watchlists and the read path that serves paginated,
// content-enriched pages through the page cache.
//
// The engine holds no mutable list state between calls. Every mutation
// goes through the store atomically; the only derived state is in the
// cache layer, which is disposable by design.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/watchdeck/watchdeck/internal/cache"
	"github.com/watchdeck/watchdeck/internal/config"
	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/metrics"
	"github.com/watchdeck/watchdeck/internal/models"
)

// ListStore is the durable per-user collection with atomic membership
// operations. "Not found" and "already exists" are booleans here, not
// errors; the engine turns them into business errors.
type ListStore interface {
	AddItem(ctx context.Context, userID string, entry models.WatchlistEntry) (inserted bool, err error)
	RemoveItem(ctx context.Context, userID, contentID string) (removed bool, err error)
	ItemExists(ctx context.Context, userID, contentID string) (bool, error)
	GetItemsPaginated(ctx context.Context, userID string, page, limit int) ([]models.WatchlistEntry, models.Pagination, error)
}

// ContentCatalog resolves content existence and details.
type ContentCatalog interface {
	ContentExists(ctx context.Context, ref models.ContentRef) (bool, error)
	BatchGetContent(ctx context.Context, refs []models.ContentRef) (map[string]models.ContentDetails, error)
}

// UserDirectory resolves user existence.
type UserDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// Service is the list engine.
type Service struct {
	store   ListStore
	catalog ContentCatalog
	users   UserDirectory
	cache   cache.PageCache

	defaultLimit int
	maxLimit     int
}

// New constructs the engine with its collaborators injected.
func New(store ListStore, catalog ContentCatalog, users UserDirectory, pageCache cache.PageCache, apiCfg config.APIConfig) *Service {
	return &Service{
		store:        store,
		catalog:      catalog,
		users:        users,
		cache:        pageCache,
		defaultLimit: apiCfg.DefaultPageSize,
		maxLimit:     apiCfg.MaxPageSize,
	}
}

// AddToList adds content to a user's watchlist.
//
// Preconditions run in order: the user must exist, the content must
// exist for the given (contentID, contentType) pair, and the item must
// not already be present. The duplicate check here is only a fast path;
// under concurrency the store's conditional insert is the authority,
// and a losing concurrent add surfaces as ErrDuplicateItem exactly as
// if the fast path had caught it.
func (s *Service) AddToList(ctx context.Context, userID string, ref models.ContentRef) (err error) {
	defer func() { metrics.RecordWatchlistOperation("add", outcomeLabel(err)) }()

	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if !exists {
		return ErrUserNotFound
	}

	exists, err = s.catalog.ContentExists(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to look up content %s: %w", ref.ContentID, err)
	}
	if !exists {
		return ErrContentNotFound
	}

	exists, err = s.store.ItemExists(ctx, userID, ref.ContentID)
	if err != nil {
		return fmt.Errorf("failed to check list membership: %w", err)
	}
	if exists {
		return ErrDuplicateItem
	}

	inserted, err := s.store.AddItem(ctx, userID, models.WatchlistEntry{
		ContentID:   ref.ContentID,
		ContentType: ref.ContentType,
		AddedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to add watchlist item: %w", err)
	}
	if !inserted {
		// Lost a race with a concurrent add of the same content.
		return ErrDuplicateItem
	}

	s.cache.InvalidateUser(ctx, userID)
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("content_id", ref.ContentID).
		Str("content_type", string(ref.ContentType)).
		Msg("Added watchlist item")
	return nil
}

// RemoveFromList removes content from a user's watchlist. There is no
// user or content precondition: only list membership matters, and a
// miss surfaces as ErrItemNotFound.
func (s *Service) RemoveFromList(ctx context.Context, userID, contentID string) (err error) {
	defer func() { metrics.RecordWatchlistOperation("remove", outcomeLabel(err)) }()

	removed, err := s.store.RemoveItem(ctx, userID, contentID)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist item: %w", err)
	}
	if !removed {
		return ErrItemNotFound
	}

	s.cache.InvalidateUser(ctx, userID)
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("content_id", contentID).
		Msg("Removed watchlist item")
	return nil
}

// GetList serves one page of a user's watchlist, enriched with catalog
// details. cached reports whether the page came from the cache.
//
// Page and limit are normalized first (page floors at 1; a missing
// limit takes the default, an oversized one is capped), then the cache
// is consulted with the normalized key. On a miss the store is paged
// over the unfiltered item set, the optional type filter is applied to
// the fetched page, and pagination metadata is recomputed over that
// filtered subset; matching items on other pages do not count. A
// fetched entry whose content the catalog can no longer resolve is
// logged and dropped, never an error. The assembled page, empty or
// not, is cached before returning.
func (s *Service) GetList(ctx context.Context, userID string, page, limit int, typeFilter models.ContentType) (result *models.WatchlistPage, cached bool, err error) {
	defer func() { metrics.RecordWatchlistOperation("list", outcomeLabel(err)) }()

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	key := cache.PageKey(userID, page, limit, typeFilter)
	if hit, ok := s.cache.GetPage(ctx, key); ok {
		return hit, true, nil
	}

	entries, pagination, err := s.store.GetItemsPaginated(ctx, userID, page, limit)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read watchlist page: %w", err)
	}

	if typeFilter != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.ContentType == typeFilter {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
		// Metadata is recomputed over the filtered subset of this page
		// only. Matching items on other pages undercount total; this is
		// long-standing documented behavior that clients rely on.
		pagination = models.NewPagination(len(entries), page, limit)
	}

	items, err := s.enrich(ctx, userID, entries)
	if err != nil {
		return nil, false, err
	}

	result = &models.WatchlistPage{Data: items, Pagination: pagination}
	s.cache.SetPage(ctx, key, result)
	return result, false, nil
}

// enrich resolves catalog details for a page of entries in one batched
// lookup and assembles response items in entry order.
func (s *Service) enrich(ctx context.Context, userID string, entries []models.WatchlistEntry) ([]models.WatchlistItem, error) {
	items := make([]models.WatchlistItem, 0, len(entries))
	if len(entries) == 0 {
		return items, nil
	}

	refs := make([]models.ContentRef, len(entries))
	for i, entry := range entries {
		refs[i] = models.ContentRef{ContentID: entry.ContentID, ContentType: entry.ContentType}
	}

	details, err := s.catalog.BatchGetContent(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content details: %w", err)
	}

	for _, entry := range entries {
		d, ok := details[entry.ContentID]
		if !ok {
			// Content removed from the catalog after it was listed.
			logging.Ctx(ctx).Warn().
				Str("user_id", userID).
				Str("content_id", entry.ContentID).
				Msg("Dropping watchlist entry with unresolvable content")
			continue
		}
		items = append(items, models.WatchlistItem{
			ContentID:    entry.ContentID,
			ContentType:  entry.ContentType,
			Title:        d.Title,
			Description:  d.Description,
			Genres:       d.Genres,
			AddedAt:      entry.AddedAt,
			ReleaseDate:  d.ReleaseDate,
			Director:     d.Director,
			Actors:       d.Actors,
			EpisodeCount: d.EpisodeCount,
		})
	}
	return items, nil
}

// outcomeLabel maps an operation result to a metrics outcome label.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrContentNotFound):
		return "content_not_found"
	case errors.Is(err, ErrDuplicateItem):
		return "duplicate_item"
	case errors.Is(err, ErrItemNotFound):
		return "item_not_found"
	default:
		return "error"
	}
}
