// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/commonground-app/server/cliparse"
	"github.com/commonground-app/server/compass"
	"github.com/commonground-app/server/db"
	"github.com/commonground-app/server/match"
	"github.com/commonground-app/server/middleware"
)

type MatchHandler struct {
	store   *db.Store
	matcher *match.Matcher
	cfg     cliparse.Config
}

func NewMatchHandler(store *db.Store, matcher *match.Matcher, cfg cliparse.Config) *MatchHandler {
	return &MatchHandler{store: store, matcher: matcher, cfg: cfg}
}

// GetMatches handles GET /accounts/{id}/matches
// Query parameters: mode (mirror|challenger|complement, default mirror),
// limit, threshold and scope.
func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account id is required")
		return
	}

	if _, err := h.store.GetAccount(r.Context(), accountID); err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
			return
		}
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	query := r.URL.Query()

	mode := compass.ModeMirror
	if raw := query.Get("mode"); raw != "" {
		parsed, err := compass.ParseMode(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = parsed
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	var threshold *float64
	if raw := query.Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "threshold must be a number between 0 and 1")
			return
		}
		threshold = &parsed
	}

	report, err := h.matcher.FindMatches(r.Context(), match.Request{
		AccountID: accountID,
		Mode:      mode,
		Scope:     query.Get("scope"),
		Limit:     limit,
		Threshold: threshold,
	})
	if errors.Is(err, match.ErrPoolUnavailable) {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Matchmaking temporarily unavailable")
		return
	}
	if err != nil {
		slog.Error("matchmaking failed", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Matchmaking failed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}
