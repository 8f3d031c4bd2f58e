// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains all HTTP request handlers for the compass API.

# Handler Groups

  - AccountHandler: account creation, lookup and preference updates
  - QuestionHandler: proposition catalog and answer submission
  - CompassHandler: live compass calculation, snapshots and diffs
  - MatchHandler: ranked matchmaking across the discoverable pool

# Conventions

Each handler is a struct holding the store and configuration, constructed
once at router setup. Handlers validate input, delegate to the store or
the match orchestrator, and write JSON via the middleware helpers. Store
sentinel errors map to 404, pool exhaustion maps to 503, everything else
unexpected maps to 500 with a logged cause.
*/
package handlers
