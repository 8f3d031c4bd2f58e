// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/commonground-app/server/cliparse"
	"github.com/commonground-app/server/compass"
	"github.com/commonground-app/server/db"
	"github.com/commonground-app/server/models"
)

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection pins every query to the same in-memory database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.NewStore(conn, GetTestConfig().PseudonymSalt)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		MatchWorkers:  4,
		PseudonymSalt: "test-pseudonym-salt",
	}
}

// CreateTestAccount creates an account and returns its ID
func CreateTestAccount(t *testing.T, store *db.Store, displayName string, discoverable bool) string {
	t.Helper()

	account, err := store.CreateAccount(context.Background(), displayName, discoverable, nil)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return account.ID
}

// CreateTestQuestion creates a proposition with the given weights and returns its ID
func CreateTestQuestion(t *testing.T, store *db.Store, prompt string, weights compass.WeightVector) string {
	t.Helper()

	question, err := store.CreateQuestion(context.Background(), prompt, "", weights)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return question.ID
}

// SubmitTestResponse records an answer for an account
func SubmitTestResponse(t *testing.T, store *db.Store, accountID, questionID string, value float64) {
	t.Helper()

	if _, err := store.UpsertResponse(context.Background(), accountID, questionID, value); err != nil {
		t.Fatalf("Failed to submit test response: %v", err)
	}
}

// SaveTestSnapshot freezes a vector for an account and returns the snapshot
func SaveTestSnapshot(t *testing.T, store *db.Store, accountID string, vector compass.Vector) models.Snapshot {
	t.Helper()

	snapshot, err := store.CreateSnapshot(context.Background(), accountID, nil, "", vector, compass.ChangelogInitial)
	if err != nil {
		t.Fatalf("Failed to save test snapshot: %v", err)
	}

	return snapshot
}

// ConnectAccounts records an accepted connection between two accounts
func ConnectAccounts(t *testing.T, store *db.Store, accountA, accountB string) {
	t.Helper()

	if err := store.AddConnection(context.Background(), accountA, accountB); err != nil {
		t.Fatalf("Failed to connect test accounts: %v", err)
	}
}

// FullVector builds a complete 8-axis vector from a sparse dimensions map,
// marking every axis with a non-zero score as confidence 1
func FullVector(dims map[compass.Axis]float64) compass.Vector {
	full := make(map[compass.Axis]float64, len(compass.Axes))
	conf := make(map[compass.Axis]int, len(compass.Axes))
	for _, axis := range compass.Axes {
		full[axis] = dims[axis]
		if dims[axis] != 0 {
			conf[axis] = 1
		}
	}
	return compass.Vector{Dimensions: full, Confidence: conf}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
