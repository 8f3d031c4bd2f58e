// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Middleware

  - WithLogging: wraps handlers with slog request/completion logging
  - CORS: permissive cross-origin headers plus OPTIONS preflight handling

# Helpers

  - JSONResponse: writes a JSON body with the given status code
  - ErrorResponse: writes a models.ErrorResponse with standard status text
  - ParseJSONBody: decodes a request body into a struct

Handlers use these for every response so the error shape stays uniform:

	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
