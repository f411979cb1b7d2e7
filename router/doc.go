// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the BankerAI server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{DB: db, Sessions: sessions, Analyst: client, Renderer: r})

# Endpoints

Health:

	GET /health

Session:

	POST /api/login  - Sign in, returns token and sets cookie
	POST /api/logout - Sign out
	GET  /api/me     - Current RM

Conversations (signed in):

	GET    /api/suggestions                  - Starter prompts
	GET    /api/conversations                - List, ?q= filters by name
	POST   /api/conversations                - Create
	GET    /api/conversations/{id}           - Conversation with messages
	PATCH  /api/conversations/{id}           - Rename
	DELETE /api/conversations/{id}           - Delete
	POST   /api/conversations/{id}/messages  - Ask a question
	GET    /api/conversations/{id}/messages/{messageID}/table.xlsx

Customer summaries (signed in, 503 without GEMINI_API_KEY):

	POST /api/customers/{id}/summary

Pages:

	GET  /login, POST /login, POST /logout
	GET  /chat, GET /chat/{id}
	POST /chat/new, /chat/{id}/send, /chat/{id}/rename, /chat/{id}/delete

Unauthenticated API calls get 401; unauthenticated page loads redirect to
/login.
*/
package router
