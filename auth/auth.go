// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token format")
	ErrSessionNotFound    = errors.New("session not found")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SignSessionID creates an HMAC signature for a session ID
// Deterministic, so a token can be checked before touching the cache
func SignSessionID(sessionID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(sessionID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding so the token fits in a cookie
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// EncodeToken joins a session ID with its signature
func EncodeToken(sessionID, secret string) string {
	return sessionID + "." + SignSessionID(sessionID, secret)
}

// DecodeToken verifies the signature and returns the session ID
func DecodeToken(token, secret string) (string, error) {
	sessionID, sig, ok := strings.Cut(token, ".")
	if !ok || sessionID == "" || sig == "" {
		return "", ErrInvalidToken
	}
	expected := SignSessionID(sessionID, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}

// CheckCredentials compares a login attempt against the configured RM account
func CheckCredentials(username, password, wantUsername, wantPassword string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPassword)) == 1
	if !userOK || !passOK || wantUsername == "" {
		return ErrInvalidCredentials
	}
	return nil
}
