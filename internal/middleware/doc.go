// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

// Package middleware provides HTTP middleware in http.HandlerFunc form:
// request ID propagation, Prometheus instrumentation, and bearer-token
// authentication. The api package adapts these to chi's middleware
// signature where needed.
package middleware
