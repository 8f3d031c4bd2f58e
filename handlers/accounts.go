// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/commonground-app/server/cliparse"
	"github.com/commonground-app/server/db"
	"github.com/commonground-app/server/middleware"
	"github.com/commonground-app/server/models"
)

type AccountHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewAccountHandler(store *db.Store, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{store: store, cfg: cfg}
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.DisplayName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if len(req.DisplayName) < 2 || len(req.DisplayName) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name must be 2-50 characters")
		return
	}
	if req.MatchThreshold != nil && (*req.MatchThreshold < 0 || *req.MatchThreshold > 1) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "match_threshold must be between 0 and 1")
		return
	}

	// New accounts are discoverable unless they opt out
	discoverable := true
	if req.Discoverable != nil {
		discoverable = *req.Discoverable
	}

	account, err := h.store.CreateAccount(r.Context(), req.DisplayName, discoverable, req.MatchThreshold)
	if err != nil {
		slog.Error("failed to create account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("account created", "account_id", account.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateAccountResponse{
		AccountID: account.ID,
	})
}

// GetAccount handles GET /accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account id is required")
		return
	}

	account, err := h.store.GetAccount(r.Context(), accountID)
	if errors.Is(err, db.ErrAccountNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, account)
}

// UpdatePreferences handles PUT /accounts/{id}/preferences
func (h *AccountHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account id is required")
		return
	}

	var req models.UpdatePreferencesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Discoverable == nil && req.MatchThreshold == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.MatchThreshold != nil && (*req.MatchThreshold < 0 || *req.MatchThreshold > 1) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "match_threshold must be between 0 and 1")
		return
	}

	account, err := h.store.UpdatePreferences(r.Context(), accountID, req)
	if errors.Is(err, db.ErrAccountNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		slog.Error("failed to update preferences", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	slog.Info("preferences updated", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusOK, account)
}
