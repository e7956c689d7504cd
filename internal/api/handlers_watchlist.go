// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/watchdeck/watchdeck/internal/models"
	"github.com/watchdeck/watchdeck/internal/validation"
	"github.com/watchdeck/watchdeck/internal/watchlist"
)

// addItemRequest is the POST body for adding content to a watchlist.
type addItemRequest struct {
	ContentID   string `json:"content_id" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=movie tvshow"`
}

// AddToWatchlist handles POST /api/v1/users/{userID}/watchlist.
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user ID is required", nil)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body is not valid JSON", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	ref := models.ContentRef{
		ContentID:   req.ContentID,
		ContentType: models.ContentType(req.ContentType),
	}
	if err := h.engine.AddToList(r.Context(), userID, ref); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data: map[string]string{
			"user_id":      userID,
			"content_id":   req.ContentID,
			"content_type": req.ContentType,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// RemoveFromWatchlist handles DELETE /api/v1/users/{userID}/watchlist/{contentID}.
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	contentID := chi.URLParam(r, "contentID")
	if userID == "" || contentID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user ID and content ID are required", nil)
		return
	}

	if err := h.engine.RemoveFromList(r.Context(), userID, contentID); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]string{
			"user_id":    userID,
			"content_id": contentID,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// GetWatchlist handles GET /api/v1/users/{userID}/watchlist.
//
// Query parameters: page (1-indexed), limit, type (movie|tvshow).
// Out-of-range page and limit values are normalized by the engine; an
// unknown type is a validation error.
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user ID is required", nil)
		return
	}

	page := getIntParam(r, "page", 1)
	limit := getIntParam(r, "limit", 0)

	typeFilter := models.ContentType(r.URL.Query().Get("type"))
	if typeFilter != "" && !typeFilter.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"type must be one of: movie, tvshow", nil)
		return
	}

	start := time.Now()
	result, cached, err := h.engine.GetList(r.Context(), userID, page, limit, typeFilter)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondEngineError maps engine errors onto HTTP status codes and
// error codes. Anything that is not a business error is an internal
// failure whose detail stays in the logs.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, watchlist.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "USER_NOT_FOUND", "user does not exist", nil)
	case errors.Is(err, watchlist.ErrContentNotFound):
		respondError(w, http.StatusNotFound, "CONTENT_NOT_FOUND", "content does not exist", nil)
	case errors.Is(err, watchlist.ErrDuplicateItem):
		respondError(w, http.StatusConflict, "DUPLICATE_ITEM", "item is already in the watchlist", nil)
	case errors.Is(err, watchlist.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "item is not in the watchlist", nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
	}
}

// respondValidationError converts a validation failure into the API
// envelope.
func respondValidationError(w http.ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}
