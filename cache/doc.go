// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache provides the key-value store behind login sessions: an
// in-memory implementation for single-process deployments and tests, and a
// Redis implementation selected when REDIS_URL is set.
package cache
