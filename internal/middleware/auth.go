// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	json "github.com/goccy/go-json"

	"github.com/watchdeck/watchdeck/internal/config"
	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/models"
)

// Claims are the JWT claims Watchdeck accepts: a subject (the caller's
// user ID) plus the registered set.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator validates bearer tokens on API requests. With auth mode
// "none" every request passes through; with "jwt" a valid HS256-signed
// bearer token is required.
type Authenticator struct {
	mode   string
	secret []byte
}

// NewAuthenticator builds an Authenticator from the security config.
// The config layer has already enforced the secret length for jwt mode.
func NewAuthenticator(cfg *config.SecurityConfig) *Authenticator {
	return &Authenticator{
		mode:   cfg.AuthMode,
		secret: []byte(cfg.JWTSecret),
	}
}

// Authenticate enforces the configured auth mode.
func (a *Authenticator) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	if a.mode != "jwt" {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			a.unauthorized(w, r, "missing bearer token")
			return
		}
		if _, err := a.validate(token); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
			a.unauthorized(w, r, "invalid or expired token")
			return
		}
		next(w, r)
	}
}

// validate parses and verifies an HS256-signed token.
func (a *Authenticator) validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}

func (a *Authenticator) unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode error response")
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
