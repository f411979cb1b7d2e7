// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package summary generates customer briefings with Gemini. It is optional:
// the server only enables it when GEMINI_API_KEY is set.
package summary
