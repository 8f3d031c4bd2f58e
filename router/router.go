// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/commonground-app/server/cliparse"
	"github.com/commonground-app/server/db"
	"github.com/commonground-app/server/handlers"
	"github.com/commonground-app/server/match"
	"github.com/commonground-app/server/middleware"
)

// NewRouter creates and configures the HTTP router
func NewRouter(store *db.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// The store backs every orchestrator port: live responses, snapshots,
	// the candidate pool and the identity gate
	matcher := match.NewMatcher(store, store, store, store, cfg.MatchWorkers)

	accountHandler := handlers.NewAccountHandler(store, cfg)
	questionHandler := handlers.NewQuestionHandler(store, cfg)
	compassHandler := handlers.NewCompassHandler(store, cfg)
	matchHandler := handlers.NewMatchHandler(store, matcher, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /accounts", middleware.WithLogging(accountHandler.CreateAccount))
	mux.HandleFunc("GET /accounts/{id}", middleware.WithLogging(accountHandler.GetAccount))
	mux.HandleFunc("PUT /accounts/{id}/preferences", middleware.WithLogging(accountHandler.UpdatePreferences))

	// Proposition catalog
	mux.HandleFunc("POST /questions", middleware.WithLogging(questionHandler.CreateQuestion))
	mux.HandleFunc("GET /questions", middleware.WithLogging(questionHandler.ListQuestions))
	mux.HandleFunc("PUT /accounts/{id}/responses/{questionID}", middleware.WithLogging(questionHandler.SubmitResponse))

	// Compass and snapshots
	mux.HandleFunc("GET /accounts/{id}/compass", middleware.WithLogging(compassHandler.GetCompass))
	mux.HandleFunc("POST /accounts/{id}/snapshots", middleware.WithLogging(compassHandler.SaveSnapshot))
	mux.HandleFunc("GET /accounts/{id}/snapshots", middleware.WithLogging(compassHandler.ListSnapshots))
	mux.HandleFunc("GET /snapshots/{id}", middleware.WithLogging(compassHandler.GetSnapshot))
	mux.HandleFunc("GET /snapshots/{id}/diff/{otherID}", middleware.WithLogging(compassHandler.DiffSnapshots))

	// Matchmaking
	mux.HandleFunc("GET /accounts/{id}/matches", middleware.WithLogging(matchHandler.GetMatches))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("CommonGround Compass API v1"))
	})

	return mux
}
