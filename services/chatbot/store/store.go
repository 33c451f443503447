// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store persists conversation turns. The production
// implementation is backed by Weaviate; a disconnected implementation
// keeps the service running when no database is reachable.
package store

import (
	"context"
	"errors"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
)

// ErrStoreUnavailable is returned by every mutating or loading call on
// a disconnected store. Listing calls degrade to empty results instead.
var ErrStoreUnavailable = errors.New("conversation store unavailable")

// Store is the conversation persistence contract.
//
// # Description
//
// Store is the only component that reads or writes conversation turns.
// All operations are scoped to a user id supplied by the auth layer;
// implementations must never return another user's turns.
type Store interface {
	// AppendTurn persists one turn. Turns are immutable once written.
	AppendTurn(ctx context.Context, turn datatypes.Turn) error

	// ListConversations returns one summary per conversation the user
	// owns, most recent first. A conversation with no surviving user
	// turn is omitted.
	ListConversations(ctx context.Context, userID string) ([]datatypes.ConversationSummary, error)

	// LoadConversation returns the full turn sequence of one
	// conversation in timestamp order. An unknown id yields an empty
	// slice, not an error.
	LoadConversation(ctx context.Context, userID, conversationID string) ([]datatypes.Turn, error)

	// DeleteConversation removes every turn of the conversation and
	// reports how many objects were deleted. Deleting an unknown id is
	// not an error; it reports zero.
	DeleteConversation(ctx context.Context, userID, conversationID string) (int, error)
}
