// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/watchdeck/watchdeck/internal/metrics"
	"github.com/watchdeck/watchdeck/internal/models"
)

type memoryEntry struct {
	page      *models.WatchlistPage
	expiresAt time.Time
}

// MemoryCache is the default in-process backend: a map guarded by an
// RWMutex with per-entry expiry. Expired entries are dropped lazily on
// read and in bulk by Sweep, which the supervision tree runs on an
// interval.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemory creates an in-process page cache with the given entry TTL.
func NewMemory(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// GetPage returns the cached page for key if present and unexpired.
func (c *MemoryCache) GetPage(_ context.Context, key string) (*models.WatchlistPage, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		metrics.CacheMisses.WithLabelValues(c.Backend()).Inc()
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent SetPage may have
		// refreshed the entry since the read.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
			metrics.CacheEvictions.WithLabelValues(c.Backend()).Inc()
		}
		c.mu.Unlock()
		metrics.CacheMisses.WithLabelValues(c.Backend()).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(c.Backend()).Inc()
	return entry.page, true
}

// SetPage stores a page under key.
func (c *MemoryCache) SetPage(_ context.Context, key string, page *models.WatchlistPage) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{page: page, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// InvalidateUser drops every cached page for userID.
func (c *MemoryCache) InvalidateUser(_ context.Context, userID string) {
	prefix := UserPrefix(userID)
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Clear drops all entries.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}

// Backend returns "memory".
func (c *MemoryCache) Backend() string { return "memory" }

// Close is a no-op for the in-process backend.
func (c *MemoryCache) Close() error { return nil }

// Sweep removes all expired entries and returns how many were dropped.
func (c *MemoryCache) Sweep() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	if dropped > 0 {
		metrics.CacheEvictions.WithLabelValues(c.Backend()).Add(float64(dropped))
	}
	return dropped
}

// Len reports the number of live entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
