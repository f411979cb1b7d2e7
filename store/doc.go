// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists conversations per relationship manager.

Every operation takes the owning user ID; a conversation that belongs to
someone else behaves exactly like one that does not exist (ErrNotFound).

	s := store.New(conn)
	conv, err := s.CreateConversation(ctx, user.ID)
	err = s.AppendMessage(ctx, user.ID, conv.ID, models.NewUserMessage("..."))
	list, err := s.ListConversations(ctx, user.ID, "risk")

The first user message appended to a fresh conversation replaces the
welcome greeting. Message content is stored as JSON.
*/
package store
