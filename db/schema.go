// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    discoverable BOOLEAN NOT NULL DEFAULT TRUE,
    match_threshold REAL CHECK (match_threshold IS NULL OR (match_threshold >= 0 AND match_threshold <= 1)),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_account_discoverable ON account(discoverable);

-- Question catalog (propositions with axis weight vectors)
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL,
    scope TEXT NOT NULL DEFAULT '',
    weights JSONB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_question_scope ON question(scope);

-- Responses (one per account+question; re-answering overwrites)
CREATE TABLE IF NOT EXISTS response (
    account_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    value REAL NOT NULL,
    answered_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (account_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_response_account ON response(account_id);

-- Compass snapshots (immutable once written; insert-only)
CREATE TABLE IF NOT EXISTS compass_snapshot (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    name TEXT,
    scope TEXT NOT NULL DEFAULT '',
    dimensions JSONB NOT NULL,
    confidence JSONB NOT NULL,
    changelog TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snapshot_account ON compass_snapshot(account_id, created_at);

-- Accepted connections (read here only as the identity-masking gate)
CREATE TABLE IF NOT EXISTS connection (
    account_a TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    account_b TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    accepted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (account_a, account_b)
);
`
