// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the mock RM login and session tokens.

# Credentials

A single relationship manager account is configured (RM_USERNAME,
RM_PASSWORD). CheckCredentials compares both in constant time:

	err := auth.CheckCredentials(username, password, cfg.RMUsername, cfg.RMPassword)

# Session Tokens

A token is a random session ID and its HMAC-SHA256 signature:

	token := auth.EncodeToken(sessionID, secret)   // "<id>.<sig>"
	id, err := auth.DecodeToken(token, secret)

Signatures are checked before the session cache is consulted, so forged
tokens never reach Redis.

# Sessions

Manager ties credentials, tokens and the cache together:

	m := auth.NewManager(cache.NewMemory(), auth.Options{...})
	token, user, err := m.Login(ctx, "rm_user", "password123")
	user, err = m.CurrentUser(ctx, token)
	err = m.Logout(ctx, token)

Logout deletes the cached session, so the token stops resolving.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
