// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - MatchWorkers: Max concurrent candidate lookups (default: 16)
  - PseudonymSalt: Secret for masked identity generation (required)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--match-workers  Candidate lookup concurrency
	--pseudonym-salt Masked identity salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	MATCH_WORKERS  → --match-workers
	PSEUDONYM_SALT → --pseudonym-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or invalid:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - PSEUDONYM_SALT must be provided
*/
package cliparse
