// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package services

import (
	"context"
	"time"

	"github.com/watchdeck/watchdeck/internal/logging"
)

// Sweepable is a cache backend with periodic maintenance: dropping
// expired entries for the memory backend, value log GC for badger.
type Sweepable interface {
	Sweep() int
}

// SweeperService runs cache maintenance on a fixed interval as a
// scheduled task, keeping expiry work off the request-serving path.
type SweeperService struct {
	cache    Sweepable
	interval time.Duration
}

// NewSweeperService wraps a sweepable cache for supervision.
func NewSweeperService(cache Sweepable, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperService{cache: cache, interval: interval}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if dropped := s.cache.Sweep(); dropped > 0 {
				logging.Debug().Int("dropped", dropped).Msg("Swept expired cache entries")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String names the service in supervisor logs.
func (s *SweeperService) String() string { return "cache-sweeper" }
