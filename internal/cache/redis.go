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

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/watchdeck/watchdeck/internal/config"
	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/metrics"
	"github.com/watchdeck/watchdeck/internal/models"
)

// RedisCache is the shared out-of-process backend. Pages are stored as
// JSON with redis-side TTL, so expiry needs no sweeper.
//
// All commands run behind a circuit breaker: once redis has failed
// several times in a row the breaker opens and every operation becomes
// an immediate miss or no-op until the backend recovers. A miss
// (redis.Nil) is a successful round trip, not a failure.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewRedis connects to redis and verifies the connection with a ping.
func NewRedis(cfg config.RedisConfig, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "redis-page-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Cache circuit breaker state changed")
		},
	})

	return &RedisCache{client: client, ttl: ttl, breaker: breaker}, nil
}

// GetPage returns the cached page for key, treating any backend failure
// as a miss.
func (c *RedisCache) GetPage(ctx context.Context, key string) (*models.WatchlistPage, bool) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.absorb("get", err)
		}
		metrics.CacheMisses.WithLabelValues(c.Backend()).Inc()
		return nil, false
	}

	var page models.WatchlistPage
	if err := json.Unmarshal(data, &page); err != nil {
		c.absorb("decode", err)
		metrics.CacheMisses.WithLabelValues(c.Backend()).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(c.Backend()).Inc()
	return &page, true
}

// SetPage stores a page under key with the configured TTL.
func (c *RedisCache) SetPage(ctx context.Context, key string, page *models.WatchlistPage) {
	data, err := json.Marshal(page)
	if err != nil {
		c.absorb("encode", err)
		return
	}
	if _, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, data, c.ttl).Err()
	}); err != nil {
		c.absorb("set", err)
	}
}

// InvalidateUser scans for the user's key prefix and deletes every match.
func (c *RedisCache) InvalidateUser(ctx context.Context, userID string) {
	if _, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.deleteByPrefix(ctx, UserPrefix(userID))
	}); err != nil {
		c.absorb("invalidate", err)
	}
}

func (c *RedisCache) deleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	dropped := 0
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
		dropped++
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if dropped > 0 {
		metrics.CacheEvictions.WithLabelValues(c.Backend()).Add(float64(dropped))
	}
	return nil
}

// Clear flushes the configured redis database.
func (c *RedisCache) Clear(ctx context.Context) {
	if _, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.FlushDB(ctx).Err()
	}); err != nil {
		c.absorb("clear", err)
	}
}

// Backend returns "redis".
func (c *RedisCache) Backend() string { return "redis" }

// Close closes the redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) absorb(operation string, err error) {
	metrics.CacheErrors.WithLabelValues(c.Backend(), operation).Inc()
	logging.Debug().Err(err).Str("operation", operation).Msg("Cache operation failed")
}
