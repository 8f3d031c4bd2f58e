package models

import (
	"time"

	"github.com/commonground-app/server/compass"
)

// Request types

type CreateAccountRequest struct {
	DisplayName    string   `json:"display_name"`
	Discoverable   *bool    `json:"discoverable,omitempty"`
	MatchThreshold *float64 `json:"match_threshold,omitempty"`
}

type UpdatePreferencesRequest struct {
	Discoverable   *bool    `json:"discoverable,omitempty"`
	MatchThreshold *float64 `json:"match_threshold,omitempty"`
}

// axis -> loading in [-1, 1]
type CreateQuestionRequest struct {
	Prompt  string             `json:"prompt"`
	Scope   string             `json:"scope,omitempty"`
	Weights map[string]float64 `json:"weights"`
}

type SubmitResponseRequest struct {
	Value float64 `json:"value"`
}

type SaveSnapshotRequest struct {
	Name  string `json:"name,omitempty"`
	Scope string `json:"scope,omitempty"`
}

// Response types

type CreateAccountResponse struct {
	AccountID string `json:"account_id"`
}

type CreateQuestionResponse struct {
	QuestionID string `json:"question_id"`
}

type SubmitResponseResponse struct {
	Message string `json:"message"`
}

type CompassResponse struct {
	AccountID string `json:"account_id"`
	compass.Vector
	ResponseCount int `json:"response_count"`
	// SkippedResponses counts stored answers dropped from the calculation
	// because their question weights no longer validate
	SkippedResponses int `json:"skipped_responses,omitempty"`
}

type SnapshotListItem struct {
	Snapshot
	CreatedAgo string `json:"created_ago"`
}

type DiffResponse struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	compass.Diff
}

// Domain types

type Account struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Discoverable   bool      `json:"discoverable"`
	MatchThreshold *float64  `json:"match_threshold,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Question struct {
	ID        string               `json:"id"`
	Prompt    string               `json:"prompt"`
	Scope     string               `json:"scope,omitempty"`
	Weights   compass.WeightVector `json:"weights"`
	CreatedAt time.Time            `json:"created_at"`
}

// Snapshot is an immutable frozen compass calculation. Once written its
// dimensions never change; rows are only removed by bulk account resets.
type Snapshot struct {
	ID        string  `json:"id"`
	AccountID string  `json:"account_id"`
	Name      *string `json:"name,omitempty"`
	Scope     string  `json:"scope,omitempty"`
	compass.Vector
	Changelog string    `json:"changelog"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is how a candidate appears to a particular viewer: the real
// display name for accepted connections, a stable pseudonym otherwise.
type Identity struct {
	DisplayName string `json:"display_name"`
	Masked      bool   `json:"masked"`
}

// Match result types

type MatchResult struct {
	AccountID  string                   `json:"account_id"`
	Identity   Identity                 `json:"identity"`
	Dimensions map[compass.Axis]float64 `json:"dimensions"`
	Score      float64                  `json:"score"`
	Mode       compass.Mode             `json:"mode"`
}

// MatchReport carries the ranked matches plus enough accounting to tell a
// complete result from a degraded one (Failed > 0 means candidates were
// skipped after lookup failures).
type MatchReport struct {
	Mode      compass.Mode  `json:"mode"`
	Threshold float64       `json:"threshold"`
	PoolSize  int           `json:"pool_size"`
	Evaluated int           `json:"evaluated"`
	Failed    int           `json:"failed"`
	Matches   []MatchResult `json:"matches"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
