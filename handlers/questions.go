// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/commonground-app/server/cliparse"
	"github.com/commonground-app/server/compass"
	"github.com/commonground-app/server/db"
	"github.com/commonground-app/server/middleware"
	"github.com/commonground-app/server/models"
)

type QuestionHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewQuestionHandler(store *db.Store, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{store: store, cfg: cfg}
}

// CreateQuestion handles POST /questions
// Weight vectors are validated against the closed axis set here, at the
// ingestion boundary, so a bad catalog entry can never reach the calculator.
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Prompt == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if len(req.Weights) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "weights are required")
		return
	}

	weights := make(compass.WeightVector, len(req.Weights))
	for axis, weight := range req.Weights {
		weights[compass.Axis(axis)] = weight
	}
	if err := compass.ValidateWeights(weights); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	question, err := h.store.CreateQuestion(r.Context(), req.Prompt, req.Scope, weights)
	if err != nil {
		slog.Error("failed to create question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	slog.Info("question created", "question_id", question.ID, "scope", question.Scope)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{
		QuestionID: question.ID,
	})
}

// ListQuestions handles GET /questions
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")

	questions, err := h.store.ListQuestions(r.Context(), scope)
	if err != nil {
		slog.Error("failed to list questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, questions)
}

// SubmitResponse handles PUT /accounts/{id}/responses/{questionID}
// Re-answering the same question overwrites the previous answer.
func (h *QuestionHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	questionID := r.PathValue("questionID")
	if accountID == "" || questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account id and question id are required")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Any finite real is accepted; the calculator clamps per axis
	if math.IsNaN(req.Value) || math.IsInf(req.Value, 0) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value must be a finite number")
		return
	}

	updated, err := h.store.UpsertResponse(r.Context(), accountID, questionID, req.Value)
	if errors.Is(err, db.ErrAccountNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Account not found")
		return
	}
	if errors.Is(err, db.ErrQuestionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to save response", "error", err, "account_id", accountID, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	message := "Response recorded"
	if updated {
		message = "Response updated"
	}

	slog.Info("response saved", "account_id", accountID, "question_id", questionID, "is_update", updated)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponseResponse{
		Message: message,
	})
}
