// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the CommonGround Compass API server.

CommonGround maps each member onto an eight-axis political compass from
their answers to weighted propositions, tracks how that position drifts
over time through immutable snapshots, and matches members against the
discoverable pool in mirror, challenger and complement modes.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:compass.db PSEUDONYM_SALT=... go run main.go

Or with flags:

	go run main.go -p 3318 -d "postgres://..." -t postgres -pseudonym-salt "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - PSEUDONYM_SALT (--pseudonym-salt): Secret for masked identity HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - MATCH_WORKERS (--match-workers): Candidate lookup concurrency (default: 16)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - compass: axis model, vector calculation, changelogs, diffs, match scoring
  - match: concurrent matchmaking orchestrator over pluggable data sources
  - handlers: HTTP request handlers (accounts, questions, compass, matches)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - ident: pseudonym generation for masked identities
  - db: Schema creation and the SQL store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
