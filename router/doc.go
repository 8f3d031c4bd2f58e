// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the HTTP endpoints to their handlers.

# Endpoints

Accounts:

	POST /accounts
	GET  /accounts/{id}
	PUT  /accounts/{id}/preferences

Proposition catalog:

	POST /questions
	GET  /questions
	PUT  /accounts/{id}/responses/{questionID}

Compass and snapshots:

	GET  /accounts/{id}/compass
	POST /accounts/{id}/snapshots
	GET  /accounts/{id}/snapshots
	GET  /snapshots/{id}
	GET  /snapshots/{id}/diff/{otherID}

Matchmaking:

	GET /accounts/{id}/matches

Operational:

	GET /health
	GET /

All routes use Go 1.22+ method-and-path patterns and are wrapped with
request logging.
*/
package router
