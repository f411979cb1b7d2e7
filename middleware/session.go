// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/bankchat/auth"
	"github.com/danielhkuo/bankchat/models"
)

// SessionResolver turns a session token into the signed-in user.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (models.User, error)
}

type userKey struct{}

// SessionToken reads the token from "Authorization: Bearer" or the session cookie.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(auth.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user set by RequireSession or RequirePage.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey{}).(models.User)
	return user, ok
}

func resolve(s SessionResolver, r *http.Request) (models.User, error) {
	token := SessionToken(r)
	if token == "" {
		return models.User{}, auth.ErrInvalidToken
	}
	return s.CurrentUser(r.Context(), token)
}

func isAuthError(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrSessionNotFound)
}

// RequireSession rejects API requests without a valid session with 401.
func RequireSession(s SessionResolver, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := resolve(s, r)
		if err != nil {
			if isAuthError(err) {
				ErrorResponse(w, http.StatusUnauthorized, "Not signed in")
				return
			}
			slog.Error("failed to resolve session", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Failed to load session")
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

// RequirePage sends browsers without a valid session to the login page.
func RequirePage(s SessionResolver, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := resolve(s, r)
		if err != nil {
			if !isAuthError(err) {
				slog.Error("failed to resolve session", "error", err)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}
