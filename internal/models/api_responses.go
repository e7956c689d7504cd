// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints, for both success and error outcomes.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"data": [...], "pagination": {...}},
//	  "metadata": {"timestamp": "2026-08-27T12:00:00Z", "query_time_ms": 4}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "DUPLICATE_ITEM", "message": "Item already in watchlist"},
//	  "metadata": {"timestamp": "2026-08-27T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
// Cached responses report query_time_ms 0 and cached true.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a machine-readable code plus a human-readable message.
//
// Codes used by the watchlist endpoints:
//   - USER_NOT_FOUND, CONTENT_NOT_FOUND, DUPLICATE_ITEM, ITEM_NOT_FOUND
//   - VALIDATION_ERROR: invalid input parameters
//   - INTERNAL_ERROR: store or lookup failure (detail is in logs only)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
