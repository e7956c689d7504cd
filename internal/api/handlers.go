// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/watchdeck/watchdeck/internal/models"
	"github.com/watchdeck/watchdeck/internal/watchlist"
)

// Pinger is the readiness dependency: anything that can report whether
// the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	engine *watchlist.Service
	store  Pinger
}

// NewHandler creates the handler set.
func NewHandler(engine *watchlist.Service, store Pinger) *Handler {
	return &Handler{engine: engine, store: store}
}

// HealthLive reports process liveness. It always succeeds while the
// process can serve HTTP at all.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "alive"},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady reports readiness: the store must answer a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "store is unreachable", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "ready"},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
