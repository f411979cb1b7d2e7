// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the BankerAI API and
browser UI.

# Handler Types

  - AuthHandler: mock RM sign-in, sign-out and the current user
  - ConversationHandler: conversation lifecycle and sending messages
  - ExportHandler: table download as an xlsx workbook
  - SummaryHandler: Gemini customer summaries
  - PageHandler: server-rendered pages backed by the same store

Handlers are created via constructor functions:

	convHandler := handlers.NewConversationHandler(st, analyticsClient)

# Sending a Message

	POST /api/conversations/{id}/messages → SendMessage

The user message is stored first, then the question and the earlier
messages go to the Analyst. The answer is stored even if the client went
away. A second send to the same conversation while one is running gets
409 Conflict. Analyst failures are stored as a bot error message, so the
thread always alternates question and answer.

# Authentication

API routes accept the session as a Bearer token or the bankchat_session
cookie. The router wraps them with middleware.RequireSession, which puts
the RM in the request context.
*/
package handlers
