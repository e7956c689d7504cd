// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/metrics"
	"github.com/watchdeck/watchdeck/internal/models"
)

// BadgerCache is the persistent local backend: cached pages survive a
// restart, which matters for installs that sit behind slow catalogs.
// Badger handles TTL expiry itself via entry TTLs and value log GC.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadger opens (or creates) a badger store at path.
func NewBadger(path string, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithIndexCacheSize(16 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache at %s: %w", path, err)
	}
	return &BadgerCache{db: db, ttl: ttl}, nil
}

// GetPage returns the cached page for key, treating any backend failure
// as a miss.
func (c *BadgerCache) GetPage(_ context.Context, key string) (*models.WatchlistPage, bool) {
	var page models.WatchlistPage
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &page)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.absorb("get", err)
		}
		metrics.CacheMisses.WithLabelValues(c.Backend()).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(c.Backend()).Inc()
	return &page, true
}

// SetPage stores a page under key with the configured TTL.
func (c *BadgerCache) SetPage(_ context.Context, key string, page *models.WatchlistPage) {
	data, err := json.Marshal(page)
	if err != nil {
		c.absorb("encode", err)
		return
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.absorb("set", err)
	}
}

// InvalidateUser iterates the user's key prefix and deletes every match.
func (c *BadgerCache) InvalidateUser(_ context.Context, userID string) {
	prefix := []byte(UserPrefix(userID))

	// Collect first, delete after: deleting while iterating invalidates
	// the iterator.
	var keys [][]byte
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		c.absorb("invalidate", err)
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.absorb("invalidate", err)
		return
	}
	if len(keys) > 0 {
		metrics.CacheEvictions.WithLabelValues(c.Backend()).Add(float64(len(keys)))
	}
}

// Clear drops all cached pages.
func (c *BadgerCache) Clear(_ context.Context) {
	if err := c.db.DropAll(); err != nil {
		c.absorb("clear", err)
	}
}

// Backend returns "badger".
func (c *BadgerCache) Backend() string { return "badger" }

// Close closes the badger store.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// Sweep reclaims value log space from deleted and expired entries. The
// supervision tree calls this on the sweep interval. Badger does its
// own TTL expiry, so there is no entry count to report.
func (c *BadgerCache) Sweep() int {
	// Badger returns ErrNoRewrite when there is nothing to collect.
	if err := c.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		c.absorb("gc", err)
	}
	return 0
}

func (c *BadgerCache) absorb(operation string, err error) {
	metrics.CacheErrors.WithLabelValues(c.Backend(), operation).Inc()
	logging.Debug().Err(err).Str("operation", operation).Msg("Cache operation failed")
}
