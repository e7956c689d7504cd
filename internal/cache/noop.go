// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package cache

import (
	"context"

	"github.com/watchdeck/watchdeck/internal/models"
)

// NoopCache disables caching: every read is a miss and every write is
// dropped. Selected with the "none" backend.
type NoopCache struct{}

// NewNoop creates a disabled cache.
func NewNoop() *NoopCache { return &NoopCache{} }

func (NoopCache) GetPage(context.Context, string) (*models.WatchlistPage, bool) { return nil, false }
func (NoopCache) SetPage(context.Context, string, *models.WatchlistPage)        {}
func (NoopCache) InvalidateUser(context.Context, string)                        {}
func (NoopCache) Clear(context.Context)                                         {}
func (NoopCache) Backend() string                                               { return "none" }
func (NoopCache) Close() error                                                  { return nil }
