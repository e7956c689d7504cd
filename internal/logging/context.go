// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey int

const requestIDKey ctxKey = iota

// ContextWithRequestID returns a context carrying the given request ID.
// The ID is attached to every log event emitted through Ctx().
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request ID from the context, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns a logger enriched with context values (request ID).
// Use this in request-scoped code paths:
//
//	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("List served")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}
	return &logger
}
