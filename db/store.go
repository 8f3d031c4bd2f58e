// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/commonground-app/server/compass"
	"github.com/commonground-app/server/ident"
	"github.com/commonground-app/server/models"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Store wraps the SQL database with the queries the handlers and the matcher
// need. It implements match.ResponseSource, match.SnapshotStore,
// match.CandidatePool, and match.IdentityGate.
type Store struct {
	db   *sql.DB
	salt string
}

// NewStore creates a store. pseudonymSalt feeds masked identity generation.
func NewStore(conn *sql.DB, pseudonymSalt string) *Store {
	return &Store{db: conn, salt: pseudonymSalt}
}

// Accounts

func (s *Store) CreateAccount(ctx context.Context, displayName string, discoverable bool, threshold *float64) (models.Account, error) {
	account := models.Account{
		ID:             uuid.NewString(),
		DisplayName:    displayName,
		Discoverable:   discoverable,
		MatchThreshold: threshold,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (id, display_name, discoverable, match_threshold, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.ID, account.DisplayName, account.Discoverable, nullFloat(account.MatchThreshold), account.CreatedAt)
	if err != nil {
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}

	return account, nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (models.Account, error) {
	var account models.Account
	var threshold sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, discoverable, match_threshold, created_at
		FROM account
		WHERE id = $1
	`, id).Scan(&account.ID, &account.DisplayName, &account.Discoverable, &threshold, &account.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("query account: %w", err)
	}

	if threshold.Valid {
		account.MatchThreshold = &threshold.Float64
	}
	return account, nil
}

// UpdatePreferences applies the non-nil fields of req to the account.
func (s *Store) UpdatePreferences(ctx context.Context, id string, req models.UpdatePreferencesRequest) (models.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return models.Account{}, err
	}

	if req.Discoverable != nil {
		account.Discoverable = *req.Discoverable
	}
	if req.MatchThreshold != nil {
		account.MatchThreshold = req.MatchThreshold
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE account
		SET discoverable = $1, match_threshold = $2
		WHERE id = $3
	`, account.Discoverable, nullFloat(account.MatchThreshold), id)
	if err != nil {
		return models.Account{}, fmt.Errorf("update preferences: %w", err)
	}

	return account, nil
}

// Questions

func (s *Store) CreateQuestion(ctx context.Context, prompt, scope string, weights compass.WeightVector) (models.Question, error) {
	weightsJSON, err := json.Marshal(weights)
	if err != nil {
		return models.Question{}, fmt.Errorf("marshal weights: %w", err)
	}

	question := models.Question{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Scope:     scope,
		Weights:   weights,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO question (id, prompt, scope, weights, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, question.ID, question.Prompt, question.Scope, weightsJSON, question.CreatedAt)
	if err != nil {
		return models.Question{}, fmt.Errorf("insert question: %w", err)
	}

	return question, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	var question models.Question
	var weightsJSON []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, prompt, scope, weights, created_at
		FROM question
		WHERE id = $1
	`, id).Scan(&question.ID, &question.Prompt, &question.Scope, &weightsJSON, &question.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Question{}, ErrQuestionNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("query question: %w", err)
	}

	if err := json.Unmarshal(weightsJSON, &question.Weights); err != nil {
		return models.Question{}, fmt.Errorf("parse question weights: %w", err)
	}
	return question, nil
}

// ListQuestions returns the catalog, optionally filtered to one scope.
func (s *Store) ListQuestions(ctx context.Context, scope string) ([]models.Question, error) {
	query := `
		SELECT id, prompt, scope, weights, created_at
		FROM question
		ORDER BY created_at, id
	`
	args := []any{}
	if scope != "" {
		query = `
			SELECT id, prompt, scope, weights, created_at
			FROM question
			WHERE scope = $1
			ORDER BY created_at, id
		`
		args = append(args, scope)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var question models.Question
		var weightsJSON []byte
		if err := rows.Scan(&question.ID, &question.Prompt, &question.Scope, &weightsJSON, &question.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(weightsJSON, &question.Weights); err != nil {
			return nil, fmt.Errorf("parse question weights: %w", err)
		}
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

// Responses

// UpsertResponse records an answer, overwriting any previous answer to the
// same question. Returns true when an existing answer was replaced.
func (s *Store) UpsertResponse(ctx context.Context, accountID, questionID string, value float64) (bool, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return false, err
	}
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM response
			WHERE account_id = $1 AND question_id = $2
		)
	`, accountID, questionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing response: %w", err)
	}

	if exists {
		_, err = tx.ExecContext(ctx, `
			UPDATE response
			SET value = $1, answered_at = $2
			WHERE account_id = $3 AND question_id = $4
		`, value, time.Now().UTC(), accountID, questionID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO response (account_id, question_id, value, answered_at)
			VALUES ($1, $2, $3, $4)
		`, accountID, questionID, value, time.Now().UTC())
	}
	if err != nil {
		return false, fmt.Errorf("write response: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit response: %w", err)
	}
	return exists, nil
}

// ListResponses returns an account's answers joined with their question
// weight vectors, ready for compass.Calculate. Rows whose stored weights no
// longer validate are logged and skipped rather than poisoning the whole
// calculation; the skipped count is returned so callers can surface the
// degradation.
func (s *Store) ListResponses(ctx context.Context, accountID, scope string) ([]compass.Response, int, error) {
	query := `
		SELECT q.id, q.weights, r.value
		FROM response r
		JOIN question q ON r.question_id = q.id
		WHERE r.account_id = $1
	`
	args := []any{accountID}
	if scope != "" {
		query += ` AND q.scope = $2`
		args = append(args, scope)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	responses := []compass.Response{}
	skipped := 0
	for rows.Next() {
		var questionID string
		var weightsJSON []byte
		var value float64
		if err := rows.Scan(&questionID, &weightsJSON, &value); err != nil {
			return nil, 0, fmt.Errorf("scan response: %w", err)
		}

		var weights compass.WeightVector
		if err := json.Unmarshal(weightsJSON, &weights); err != nil {
			slog.Warn("skipping response with unparseable weights", "question_id", questionID, "error", err)
			skipped++
			continue
		}
		if err := compass.ValidateWeights(weights); err != nil {
			slog.Warn("skipping response with invalid weights", "question_id", questionID, "error", err)
			skipped++
			continue
		}

		responses = append(responses, compass.Response{Weights: weights, Value: value})
	}

	return responses, skipped, rows.Err()
}

// Snapshots

func (s *Store) CreateSnapshot(ctx context.Context, accountID string, name *string, scope string, vector compass.Vector, changelog string) (models.Snapshot, error) {
	dimensionsJSON, err := json.Marshal(vector.Dimensions)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("marshal dimensions: %w", err)
	}
	confidenceJSON, err := json.Marshal(vector.Confidence)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("marshal confidence: %w", err)
	}

	snapshot := models.Snapshot{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Name:      name,
		Scope:     scope,
		Vector:    vector,
		Changelog: changelog,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compass_snapshot (id, account_id, name, scope, dimensions, confidence, changelog, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, snapshot.ID, snapshot.AccountID, snapshot.Name, snapshot.Scope, dimensionsJSON, confidenceJSON, snapshot.Changelog, snapshot.CreatedAt)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	return snapshot, nil
}

func (s *Store) GetSnapshot(ctx context.Context, id string) (models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, scope, dimensions, confidence, changelog, created_at
		FROM compass_snapshot
		WHERE id = $1
	`, id)

	snapshot, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return models.Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	return snapshot, nil
}

// LatestSnapshot returns the most recent snapshot for an account, nil when
// there is none. scope narrows the search when non-empty.
func (s *Store) LatestSnapshot(ctx context.Context, accountID, scope string) (*models.Snapshot, error) {
	query := `
		SELECT id, account_id, name, scope, dimensions, confidence, changelog, created_at
		FROM compass_snapshot
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	args := []any{accountID}
	if scope != "" {
		query = `
			SELECT id, account_id, name, scope, dimensions, confidence, changelog, created_at
			FROM compass_snapshot
			WHERE account_id = $1 AND scope = $2
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		`
		args = append(args, scope)
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	snapshot, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListSnapshots returns an account's snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context, accountID, scope string) ([]models.Snapshot, error) {
	query := `
		SELECT id, account_id, name, scope, dimensions, confidence, changelog, created_at
		FROM compass_snapshot
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`
	args := []any{accountID}
	if scope != "" {
		query = `
			SELECT id, account_id, name, scope, dimensions, confidence, changelog, created_at
			FROM compass_snapshot
			WHERE account_id = $1 AND scope = $2
			ORDER BY created_at DESC, id DESC
		`
		args = append(args, scope)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []models.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

// Candidate pool / identity gate

// ListDiscoverable returns every discoverable account except the excluded
// one. The order is incidental; the matcher re-sorts by score.
func (s *Store) ListDiscoverable(ctx context.Context, excluding string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM account
		WHERE discoverable = TRUE AND id <> $1
		ORDER BY created_at, id
	`, excluding)
	if err != nil {
		return nil, fmt.Errorf("query discoverable accounts: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan account id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// MatchThreshold reads an account's stored minimum-score preference.
// ok=false when the account has no preference (or doesn't exist).
func (s *Store) MatchThreshold(ctx context.Context, accountID string) (float64, bool, error) {
	var threshold sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT match_threshold FROM account WHERE id = $1
	`, accountID).Scan(&threshold)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query match threshold: %w", err)
	}
	return threshold.Float64, threshold.Valid, nil
}

// Identity shows the candidate's real display name to connected viewers and
// a stable pseudonym to everyone else.
func (s *Store) Identity(ctx context.Context, candidateID, viewerID string) (models.Identity, error) {
	var displayName string
	err := s.db.QueryRowContext(ctx, `
		SELECT display_name FROM account WHERE id = $1
	`, candidateID).Scan(&displayName)

	if err == sql.ErrNoRows {
		return models.Identity{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("query candidate account: %w", err)
	}

	var connected bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM connection
			WHERE (account_a = $1 AND account_b = $2)
			   OR (account_a = $2 AND account_b = $1)
		)
	`, candidateID, viewerID).Scan(&connected)
	if err != nil {
		return models.Identity{}, fmt.Errorf("query connection: %w", err)
	}

	if connected {
		return models.Identity{DisplayName: displayName}, nil
	}
	return models.Identity{DisplayName: ident.Pseudonym(candidateID, s.salt), Masked: true}, nil
}

// AddConnection records an accepted connection between two accounts. The
// connection workflow itself lives outside this service; this writer exists
// for that collaborator and for test fixtures.
func (s *Store) AddConnection(ctx context.Context, accountA, accountB string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO connection (account_a, account_b, accepted_at)
		VALUES ($1, $2, $3)
	`, accountA, accountB, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert connection: %w", err)
	}
	return nil
}

// Helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (models.Snapshot, error) {
	var snapshot models.Snapshot
	var dimensionsJSON, confidenceJSON []byte
	err := row.Scan(
		&snapshot.ID, &snapshot.AccountID, &snapshot.Name, &snapshot.Scope,
		&dimensionsJSON, &confidenceJSON, &snapshot.Changelog, &snapshot.CreatedAt,
	)
	if err != nil {
		return models.Snapshot{}, err
	}

	if err := json.Unmarshal(dimensionsJSON, &snapshot.Dimensions); err != nil {
		return models.Snapshot{}, fmt.Errorf("parse snapshot dimensions: %w", err)
	}
	if err := json.Unmarshal(confidenceJSON, &snapshot.Confidence); err != nil {
		return models.Snapshot{}, fmt.Errorf("parse snapshot confidence: %w", err)
	}
	return snapshot, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
