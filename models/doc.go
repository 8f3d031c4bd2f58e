// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Type Categories

Request types (client → server):

  - CreateAccountRequest: display name plus discoverability preferences
  - CreateQuestionRequest: proposition prompt and axis weight map
  - SubmitResponseRequest: answer value for one proposition
  - SaveSnapshotRequest: optional name/scope for freezing a compass

Response types (server → client):

  - CompassResponse: live dimensions + confidence for an account
  - SnapshotListItem: stored snapshot with a humanized age
  - DiffResponse: per-axis shifts between two snapshots
  - MatchReport: ranked matches with pool/evaluated/failed accounting

Domain types:

  - Account: member record with discoverability and threshold preferences
  - Question: proposition with its validated axis weight vector
  - Snapshot: immutable frozen compass calculation
  - Identity: viewer-dependent display name (full or masked)

# JSON Conventions

All types use snake_case JSON tags. A compass vector always serializes as

	{"dimensions": {"economy": 0.4, ...}, "confidence": {"economy": 3, ...}}

so stored snapshots and live calculations round-trip identically. Optional
fields use pointers with omitempty.
*/
package models
