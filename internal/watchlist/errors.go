// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package watchlist

import "errors"

// Business errors are expected outcomes, not failures: every public
// operation can report them distinctly and the transport layer maps
// each to its own status code. Structural failures (store or catalog
// unreachable) propagate as ordinary wrapped errors instead.
var (
	// ErrUserNotFound means the user directory has no such user.
	ErrUserNotFound = errors.New("user not found")

	// ErrContentNotFound means the catalog has no content matching the
	// (contentID, contentType) pair.
	ErrContentNotFound = errors.New("content not found")

	// ErrDuplicateItem means the content is already on the user's list.
	ErrDuplicateItem = errors.New("item already in watchlist")

	// ErrItemNotFound means a removal targeted content that is not on
	// the user's list.
	ErrItemNotFound = errors.New("item not in watchlist")
)
