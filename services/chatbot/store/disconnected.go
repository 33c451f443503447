// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
)

// DisconnectedStore is the store used when no database is reachable at
// startup (lightweight mode).
//
// # Description
//
// Writes and loads fail fast with ErrStoreUnavailable so callers can
// surface the outage; listings return empty results so the UI renders
// an empty history rather than an error page. The process keeps
// answering questions without persistence.
type DisconnectedStore struct{}

var _ Store = (*DisconnectedStore)(nil)

// NewDisconnectedStore creates a store with no backing database.
func NewDisconnectedStore() *DisconnectedStore {
	return &DisconnectedStore{}
}

func (s *DisconnectedStore) AppendTurn(_ context.Context, _ datatypes.Turn) error {
	return ErrStoreUnavailable
}

func (s *DisconnectedStore) ListConversations(_ context.Context, _ string) ([]datatypes.ConversationSummary, error) {
	return []datatypes.ConversationSummary{}, nil
}

func (s *DisconnectedStore) LoadConversation(_ context.Context, _, _ string) ([]datatypes.Turn, error) {
	return nil, ErrStoreUnavailable
}

func (s *DisconnectedStore) DeleteConversation(_ context.Context, _, _ string) (int, error) {
	return 0, ErrStoreUnavailable
}
