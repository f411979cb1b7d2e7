// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the BankerAI chat server.

BankerAI lets a relationship manager (RM) ask questions about customer data
in plain language. Questions are forwarded to a text-to-SQL analytics
service and the answer comes back as text, the generated SQL, an optional
chart and an optional data table. Conversations are kept per RM.

# Starting the Server

	SESSION_SECRET=dev ANALYTICS_URL=https://... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -analytics-url https://...

A .env file in the working directory is loaded first; variables already
set in the environment win.

# Configuration

Required settings:

  - SESSION_SECRET (-session-secret): HMAC key for session tokens
  - ANALYTICS_URL (-analytics-url): text-to-SQL endpoint

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): sqlite path or postgres URL (default: bankchat.db)
  - REDIS_URL (-redis): keep sessions in redis instead of memory
  - RM_USERNAME, RM_PASSWORD: mock sign-in credentials
  - ANALYTICS_API_KEY, ANALYTICS_TIMEOUT and the WAREHOUSE_* and METADATA_* settings
  - GEMINI_API_KEY, GEMINI_MODEL: enable customer summaries
  - COOKIE_SECURE: mark the session cookie Secure
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - handlers: JSON API, browser pages and the xlsx export
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, session guards
  - analytics: client and response mapping for the text-to-SQL service
  - summary: Gemini customer summaries
  - store: conversation persistence
  - auth, cache: mock sign-in and session storage
  - web: embedded HTML templates
  - db: connection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
