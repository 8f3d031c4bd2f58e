// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/commonground-app/server/cliparse"
	"github.com/commonground-app/server/compass"
	"github.com/commonground-app/server/db"
	"github.com/commonground-app/server/middleware"
	"github.com/commonground-app/server/models"
)

type CompassHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewCompassHandler(store *db.Store, cfg cliparse.Config) *CompassHandler {
	return &CompassHandler{store: store, cfg: cfg}
}

// GetCompass handles GET /accounts/{id}/compass
// The vector is always computed live from the account's current responses.
func (h *CompassHandler) GetCompass(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account id is required")
		return
	}
	scope := r.URL.Query().Get("scope")

	if _, err := h.store.GetAccount(r.Context(), accountID); err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
			return
		}
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	responses, skipped, err := h.store.ListResponses(r.Context(), accountID, scope)
	if err != nil {
		slog.Error("failed to list responses", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	vector := compass.Calculate(responses)

	middleware.JSONResponse(w, http.StatusOK, models.CompassResponse{
		AccountID:        accountID,
		Vector:           vector,
		ResponseCount:    len(responses),
		SkippedResponses: skipped,
	})
}

// SaveSnapshot handles POST /accounts/{id}/snapshots
// The changelog compares against the latest prior snapshot in the same scope;
// the first snapshot in a scope is marked as the initial one.
func (h *CompassHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account id is required")
		return
	}

	// An empty body means a default, unnamed snapshot
	var req models.SaveSnapshotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
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

	responses, skipped, err := h.store.ListResponses(r.Context(), accountID, req.Scope)
	if err != nil {
		slog.Error("failed to list responses", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if skipped > 0 {
		slog.Warn("snapshot computed with invalid responses excluded", "account_id", accountID, "skipped", skipped)
	}
	vector := compass.Calculate(responses)

	prior, err := h.store.LatestSnapshot(r.Context(), accountID, req.Scope)
	if err != nil {
		slog.Error("failed to load prior snapshot", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var changelog string
	if prior == nil {
		changelog = compass.Changelog(nil, vector.Dimensions)
	} else {
		changelog = compass.Changelog(prior.Dimensions, vector.Dimensions)
	}

	var name *string
	if req.Name != "" {
		name = &req.Name
	}

	snapshot, err := h.store.CreateSnapshot(r.Context(), accountID, name, req.Scope, vector, changelog)
	if err != nil {
		slog.Error("failed to create snapshot", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create snapshot")
		return
	}

	slog.Info("snapshot saved", "snapshot_id", snapshot.ID, "account_id", accountID, "changelog", changelog)

	middleware.JSONResponse(w, http.StatusCreated, snapshot)
}

// ListSnapshots handles GET /accounts/{id}/snapshots
func (h *CompassHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account id is required")
		return
	}
	scope := r.URL.Query().Get("scope")

	if _, err := h.store.GetAccount(r.Context(), accountID); err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
			return
		}
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	snapshots, err := h.store.ListSnapshots(r.Context(), accountID, scope)
	if err != nil {
		slog.Error("failed to list snapshots", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	items := make([]models.SnapshotListItem, len(snapshots))
	for i, s := range snapshots {
		items[i] = models.SnapshotListItem{
			Snapshot:   s,
			CreatedAgo: humanize.Time(s.CreatedAt),
		}
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

// GetSnapshot handles GET /snapshots/{id}
func (h *CompassHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := r.PathValue("id")
	if snapshotID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "snapshot id is required")
		return
	}

	snapshot, err := h.store.GetSnapshot(r.Context(), snapshotID)
	if errors.Is(err, db.ErrSnapshotNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

// DiffSnapshots handles GET /snapshots/{id}/diff/{otherID}
// The diff reads from {id} to {otherID}, oldest first by convention of the caller.
func (h *CompassHandler) DiffSnapshots(w http.ResponseWriter, r *http.Request) {
	fromID := r.PathValue("id")
	toID := r.PathValue("otherID")
	if fromID == "" || toID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "both snapshot ids are required")
		return
	}

	from, err := h.store.GetSnapshot(r.Context(), fromID)
	if errors.Is(err, db.ErrSnapshotNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query snapshot", "error", err, "snapshot_id", fromID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	to, err := h.store.GetSnapshot(r.Context(), toID)
	if errors.Is(err, db.ErrSnapshotNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query snapshot", "error", err, "snapshot_id", toID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	diff := compass.DiffVectors(from.Dimensions, to.Dimensions)

	middleware.JSONResponse(w, http.StatusOK, models.DiffResponse{
		FromID: from.ID,
		ToID:   to.ID,
		Diff:   diff,
	})
}
