// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package database

import (
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/watchdeck/watchdeck/internal/logging"
)

// isNoRows reports whether err is the "no rows in result set" sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isWriteConflict reports whether err is DuckDB's signature for losing
// an optimistic-concurrency race: a key constraint violated by a row
// this transaction's snapshot could not see, or a commit-time
// transaction conflict. The driver surfaces both only as formatted
// messages.
func isWriteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates primary key constraint") ||
		strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "TransactionContext Error")
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use in cleanup paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
