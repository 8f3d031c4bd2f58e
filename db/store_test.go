// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/commonground-app/server/compass"
	"github.com/commonground-app/server/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps every query on the same in-memory database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return NewStore(conn, "test-pseudonym-salt")
}

func testVector(dims map[compass.Axis]float64) compass.Vector {
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

func TestAccountRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	threshold := 0.7
	created, err := store.CreateAccount(ctx, "Alice", true, &threshold)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	got, err := store.GetAccount(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if got.DisplayName != "Alice" || !got.Discoverable {
		t.Errorf("Unexpected account: %+v", got)
	}
	if got.MatchThreshold == nil || *got.MatchThreshold != 0.7 {
		t.Errorf("Expected threshold 0.7, got %v", got.MatchThreshold)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetAccount(context.Background(), "missing")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdatePreferences(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	account, _ := store.CreateAccount(ctx, "Bob", true, nil)

	hidden := false
	threshold := 0.5
	updated, err := store.UpdatePreferences(ctx, account.ID, models.UpdatePreferencesRequest{
		Discoverable:   &hidden,
		MatchThreshold: &threshold,
	})
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if updated.Discoverable {
		t.Error("Expected discoverable false after update")
	}
	if updated.MatchThreshold == nil || *updated.MatchThreshold != 0.5 {
		t.Errorf("Expected threshold 0.5, got %v", updated.MatchThreshold)
	}

	// Partial update leaves the other field alone
	visible := true
	updated, err = store.UpdatePreferences(ctx, account.ID, models.UpdatePreferencesRequest{Discoverable: &visible})
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if updated.MatchThreshold == nil || *updated.MatchThreshold != 0.5 {
		t.Errorf("Partial update should keep threshold, got %v", updated.MatchThreshold)
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	weights := compass.WeightVector{compass.AxisEconomy: 0.8, compass.AxisJustice: -0.3}
	created, err := store.CreateQuestion(ctx, "Markets should be free", "core", weights)
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	got, err := store.GetQuestion(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}
	if got.Weights[compass.AxisEconomy] != 0.8 || got.Weights[compass.AxisJustice] != -0.3 {
		t.Errorf("Weights did not round-trip: %+v", got.Weights)
	}

	scoped, err := store.ListQuestions(ctx, "core")
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(scoped) != 1 {
		t.Errorf("Expected 1 scoped question, got %d", len(scoped))
	}
	other, err := store.ListQuestions(ctx, "other-scope")
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected 0 questions in other scope, got %d", len(other))
	}
}

func TestUpsertResponseOverwrites(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	account, _ := store.CreateAccount(ctx, "Carol", true, nil)
	question, _ := store.CreateQuestion(ctx, "Test prompt", "", compass.WeightVector{compass.AxisEconomy: 1})

	updated, err := store.UpsertResponse(ctx, account.ID, question.ID, 0.5)
	if err != nil {
		t.Fatalf("UpsertResponse failed: %v", err)
	}
	if updated {
		t.Error("First answer should not report an update")
	}

	updated, err = store.UpsertResponse(ctx, account.ID, question.ID, -0.5)
	if err != nil {
		t.Fatalf("UpsertResponse failed: %v", err)
	}
	if !updated {
		t.Error("Second answer should report an update")
	}

	responses, _, err := store.ListResponses(ctx, account.ID, "")
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(responses) != 1 {
		t.Fatalf("Re-answering must overwrite, not duplicate: got %d rows", len(responses))
	}
	if responses[0].Value != -0.5 {
		t.Errorf("Expected overwritten value -0.5, got %f", responses[0].Value)
	}
}

func TestUpsertResponseUnknownQuestion(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	account, _ := store.CreateAccount(ctx, "Dave", true, nil)

	_, err := store.UpsertResponse(ctx, account.ID, "missing", 0.5)
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("Expected ErrQuestionNotFound, got %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	account, _ := store.CreateAccount(ctx, "Erin", true, nil)
	vector := testVector(map[compass.Axis]float64{compass.AxisEconomy: 0.4, compass.AxisJustice: -0.2})

	name := "after debate night"
	created, err := store.CreateSnapshot(ctx, account.ID, &name, "core", vector, compass.ChangelogInitial)
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	got, err := store.GetSnapshot(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if got.Dimensions[compass.AxisEconomy] != 0.4 {
		t.Errorf("Dimensions did not round-trip: %+v", got.Dimensions)
	}
	if got.Confidence[compass.AxisEconomy] != 1 {
		t.Errorf("Confidence did not round-trip: %+v", got.Confidence)
	}
	if got.Name == nil || *got.Name != name {
		t.Errorf("Name did not round-trip: %v", got.Name)
	}
	if got.Changelog != compass.ChangelogInitial {
		t.Errorf("Changelog did not round-trip: %q", got.Changelog)
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetSnapshot(context.Background(), "missing")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestLatestSnapshotAndOrdering(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	account, _ := store.CreateAccount(ctx, "Frank", true, nil)

	latest, err := store.LatestSnapshot(ctx, account.ID, "")
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest != nil {
		t.Error("Expected nil latest snapshot for fresh account")
	}

	first, _ := store.CreateSnapshot(ctx, account.ID, nil, "", testVector(map[compass.Axis]float64{compass.AxisEconomy: 0.1}), "")
	second, _ := store.CreateSnapshot(ctx, account.ID, nil, "", testVector(map[compass.Axis]float64{compass.AxisEconomy: 0.2}), "")

	latest, err = store.LatestSnapshot(ctx, account.ID, "")
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Errorf("Expected latest snapshot %s, got %+v", second.ID, latest)
	}

	list, err := store.ListSnapshots(ctx, account.ID, "")
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("ListSnapshots should be newest-first")
	}
}

func TestLatestSnapshotScoped(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	account, _ := store.CreateAccount(ctx, "Grace", true, nil)
	store.CreateSnapshot(ctx, account.ID, nil, "core", testVector(map[compass.Axis]float64{compass.AxisEconomy: 0.1}), "")
	scoped, _ := store.CreateSnapshot(ctx, account.ID, nil, "climate", testVector(map[compass.Axis]float64{compass.AxisEnvironment: 0.9}), "")

	latest, err := store.LatestSnapshot(ctx, account.ID, "climate")
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest == nil || latest.ID != scoped.ID {
		t.Errorf("Expected scoped snapshot %s, got %+v", scoped.ID, latest)
	}
}

func TestListDiscoverableExcludesRequesterAndHidden(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	requester, _ := store.CreateAccount(ctx, "Requester", true, nil)
	visible, _ := store.CreateAccount(ctx, "Visible", true, nil)
	store.CreateAccount(ctx, "Hidden", false, nil)

	ids, err := store.ListDiscoverable(ctx, requester.ID)
	if err != nil {
		t.Fatalf("ListDiscoverable failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != visible.ID {
		t.Errorf("Expected only the visible account, got %v", ids)
	}
}

func TestMatchThreshold(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	threshold := 0.6
	withPref, _ := store.CreateAccount(ctx, "HasPref", true, &threshold)
	without, _ := store.CreateAccount(ctx, "NoPref", true, nil)

	got, ok, err := store.MatchThreshold(ctx, withPref.ID)
	if err != nil || !ok || got != 0.6 {
		t.Errorf("Expected (0.6, true), got (%f, %v, %v)", got, ok, err)
	}

	_, ok, err = store.MatchThreshold(ctx, without.ID)
	if err != nil || ok {
		t.Errorf("Expected no preference, got ok=%v err=%v", ok, err)
	}
}

func TestIdentityMasking(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	viewer, _ := store.CreateAccount(ctx, "Viewer", true, nil)
	friend, _ := store.CreateAccount(ctx, "Friend", true, nil)
	stranger, _ := store.CreateAccount(ctx, "Stranger", true, nil)

	if err := store.AddConnection(ctx, viewer.ID, friend.ID); err != nil {
		t.Fatalf("AddConnection failed: %v", err)
	}

	identity, err := store.Identity(ctx, friend.ID, viewer.ID)
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	if identity.Masked || identity.DisplayName != "Friend" {
		t.Errorf("Connected viewer should see full identity, got %+v", identity)
	}

	// The connection works in both directions
	identity, err = store.Identity(ctx, viewer.ID, friend.ID)
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	if identity.Masked {
		t.Errorf("Connection should be symmetric, got %+v", identity)
	}

	identity, err = store.Identity(ctx, stranger.ID, viewer.ID)
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	if !identity.Masked {
		t.Errorf("Unconnected viewer should see a masked identity, got %+v", identity)
	}
	if identity.DisplayName == "Stranger" {
		t.Error("Masked identity must not leak the real display name")
	}
}

func TestListResponsesSkipsCorruptWeights(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	account, _ := store.CreateAccount(ctx, "Henry", true, nil)
	good, _ := store.CreateQuestion(ctx, "Good question", "", compass.WeightVector{compass.AxisEconomy: 1})
	bad, _ := store.CreateQuestion(ctx, "Bad question", "", compass.WeightVector{compass.AxisEconomy: 1})

	store.UpsertResponse(ctx, account.ID, good.ID, 1)
	store.UpsertResponse(ctx, account.ID, bad.ID, 1)

	// Corrupt the bad question's weights behind the validator's back
	_, err := store.db.ExecContext(ctx, `UPDATE question SET weights = $1 WHERE id = $2`, `{"freedom": 0.5}`, bad.ID)
	if err != nil {
		t.Fatalf("Failed to corrupt weights: %v", err)
	}

	responses, skipped, err := store.ListResponses(ctx, account.ID, "")
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(responses) != 1 {
		t.Errorf("Corrupt row should be skipped, not fatal: got %d rows", len(responses))
	}
	if skipped != 1 {
		t.Errorf("Skipped rows must be reported to the caller: expected 1, got %d", skipped)
	}
}
