// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the schema and all SQL access.

# Schema

CreateSchema creates five tables (idempotent, IF NOT EXISTS):

  - account: members with discoverability and threshold preferences
  - question: propositions with JSONB axis weight vectors
  - response: one answer per account+question, overwritten on re-answer
  - compass_snapshot: immutable frozen compass calculations (insert-only)
  - connection: accepted pairs, read here only as the masking gate

The SQL sticks to the portable subset both drivers understand: the server
runs against PostgreSQL (lib/pq) in production and SQLite (modernc.org/sqlite)
for development and tests.

# Store

Store wraps *sql.DB with typed queries and maps sql.ErrNoRows onto domain
sentinels (ErrAccountNotFound, ErrQuestionNotFound, ErrSnapshotNotFound).
It also implements the four collaborator interfaces the match package
declares, so one Store wires the whole matchmaking pipeline:

	store := db.NewStore(conn, cfg.PseudonymSalt)
	matcher := match.NewMatcher(store, store, store, store, cfg.MatchWorkers)

Snapshot dimensions/confidence maps are stored as JSON payloads, mirroring
their wire format exactly. Responses whose stored weights no longer pass
validation are logged and skipped at read time, never silently coerced.
*/
package db
