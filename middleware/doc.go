// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request completion with method, path, status and duration_ms.

# Sessions

API routes use RequireSession, which answers 401 without a valid token.
Page routes use RequirePage, which redirects to /login instead. Both accept
the token from "Authorization: Bearer <token>" or the bankchat_session
cookie and store the user in the request context:

	user, _ := middleware.UserFromContext(r.Context())

# CORS Middleware

Enable cross-origin requests for a separately hosted UI:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SendMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
