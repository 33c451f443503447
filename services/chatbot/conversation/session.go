// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package conversation tracks which conversation each authenticated
// user is currently writing to. Sessions live only in process memory;
// the turns themselves are persisted by the store.
package conversation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long a session may sit untouched before
// the sweeper drops it. Dropping a session only forgets the current
// conversation pointer; persisted turns are unaffected.
const DefaultIdleTimeout = 2 * time.Hour

// session is the per-user in-memory state.
type session struct {
	currentConversationID string
	lastActive            time.Time
}

// Manager resolves and mutates the current conversation pointer for
// each user.
//
// # Description
//
// A user's first message after startup, after an explicit end-chat, or
// after the active conversation was deleted starts a fresh conversation
// with a new UUID v4 id. Conversation ids are never reused: a deleted
// conversation's id is simply forgotten.
//
// # Thread Safety
//
// Manager is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return newManagerWithClock(time.Now)
}

func newManagerWithClock(now func() time.Time) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		now:      now,
	}
}

// Resolve returns the user's current conversation id, minting a new
// one when the user has no active conversation.
func (m *Manager) Resolve(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.touch(userID)
	if s.currentConversationID == "" {
		s.currentConversationID = uuid.NewString()
		slog.Debug("Started new conversation",
			"user_id", userID, "conversation_id", s.currentConversationID)
	}
	return s.currentConversationID
}

// CurrentConversationID returns the active conversation id without
// creating one. The second return is false when no conversation is
// active.
func (m *Manager) CurrentConversationID(userID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok || s.currentConversationID == "" {
		return "", false
	}
	return s.currentConversationID, true
}

// SetCurrentConversation points the user's session at an existing
// conversation, typically after the user opened it from the history
// list.
func (m *Manager) SetCurrentConversation(userID, conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.touch(userID)
	s.currentConversationID = conversationID
}

// ResetConversation clears the current pointer so the user's next
// message starts a fresh conversation.
func (m *Manager) ResetConversation(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.touch(userID)
	s.currentConversationID = ""
}

// HandleConversationDeleted clears the pointer only if it references
// the deleted conversation. Deleting a background conversation leaves
// the active one untouched.
func (m *Manager) HandleConversationDeleted(userID, conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return
	}
	if s.currentConversationID == conversationID {
		s.currentConversationID = ""
	}
}

// touch fetches or creates the session and stamps its activity time.
// Callers must hold m.mu.
func (m *Manager) touch(userID string) *session {
	s, ok := m.sessions[userID]
	if !ok {
		s = &session{}
		m.sessions[userID] = s
	}
	s.lastActive = m.now()
	return s
}

// sweepIdle drops sessions idle longer than timeout and returns how
// many were removed.
func (m *Manager) sweepIdle(timeout time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-timeout)
	removed := 0
	for userID, s := range m.sessions {
		if s.lastActive.Before(cutoff) {
			delete(m.sessions, userID)
			removed++
		}
	}
	return removed
}
