// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

// Package api provides the HTTP surface: chi routing, middleware
// wiring, and the watchlist and health handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/watchdeck/watchdeck/internal/config"
	"github.com/watchdeck/watchdeck/internal/middleware"
)

// Router assembles the HTTP handler tree.
type Router struct {
	handler *Handler
	chiMW   *ChiMiddleware
	auth    *middleware.Authenticator
}

// NewRouter wires the handler set with middleware built from cfg.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler: handler,
		chiMW:   NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		auth:    middleware.NewAuthenticator(&cfg.Security),
	}
}

// chiAdapter lifts http.HandlerFunc middleware into chi's
// func(http.Handler) http.Handler form.
func chiAdapter(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chiAdapter(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())

	// Health endpoints sit outside auth so orchestrators can probe them,
	// with a permissive rate limit of their own.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMW.RateLimitHealth())
		r.Get("/", router.handler.HealthReady)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// Watchlist API.
	r.Route("/api/v1/users/{userID}/watchlist", func(r chi.Router) {
		r.Use(router.chiMW.RateLimit())
		r.Use(chiAdapter(middleware.PrometheusMetrics))
		r.Use(chiAdapter(router.auth.Authenticate))

		r.Get("/", router.handler.GetWatchlist)
		r.Post("/", router.handler.AddToWatchlist)
		r.Delete("/{contentID}", router.handler.RemoveFromWatchlist)
	})

	return r
}
