// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielhkuo/bankchat/auth"
	"github.com/danielhkuo/bankchat/middleware"
	"github.com/danielhkuo/bankchat/models"
	"github.com/danielhkuo/bankchat/store"
	"github.com/danielhkuo/bankchat/testutil"
)

var testRM = models.User{ID: auth.MockUserID, Username: testutil.TestUsername}

// fakeAnalyst answers with a fixed reply, or calls fn when set.
type fakeAnalyst struct {
	reply models.MessageContent
	err   error
	fn    func(ctx context.Context, query string, history []models.Message) (models.Message, error)
}

func (f *fakeAnalyst) Ask(ctx context.Context, query string, history []models.Message) (models.Message, error) {
	if f.fn != nil {
		return f.fn(ctx, query, history)
	}
	if f.err != nil {
		return models.Message{}, f.err
	}
	return models.NewBotMessage(f.reply), nil
}

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.SetupTestDB(t))
}

// asUser attaches the signed-in RM the way RequireSession would.
func asUser(req *http.Request, user models.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func createConversation(t *testing.T, s *store.Store, userID string) models.Conversation {
	t.Helper()
	conv, err := s.CreateConversation(context.Background(), userID)
	if err != nil {
		t.Fatalf("Failed to create conversation: %v", err)
	}
	return conv
}
