// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package conversation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMintsAndReusesConversationID(t *testing.T) {
	m := NewManager()

	first := m.Resolve("user-1")
	second := m.Resolve("user-1")

	_, err := uuid.Parse(first)
	require.NoError(t, err, "conversation ids are UUIDs")
	assert.Equal(t, first, second, "subsequent messages stay in the same conversation")

	other := m.Resolve("user-2")
	assert.NotEqual(t, first, other, "sessions are per user")
}

func TestResetConversationStartsFresh(t *testing.T) {
	m := NewManager()

	first := m.Resolve("user-1")
	m.ResetConversation("user-1")

	_, active := m.CurrentConversationID("user-1")
	assert.False(t, active)

	second := m.Resolve("user-1")
	assert.NotEqual(t, first, second, "ids are never reused")
}

func TestSetCurrentConversation(t *testing.T) {
	m := NewManager()

	m.SetCurrentConversation("user-1", "conv-42")

	got, active := m.CurrentConversationID("user-1")
	require.True(t, active)
	assert.Equal(t, "conv-42", got)
	assert.Equal(t, "conv-42", m.Resolve("user-1"))
}

func TestHandleConversationDeleted(t *testing.T) {
	m := NewManager()
	active := m.Resolve("user-1")

	// Deleting some other conversation leaves the pointer alone.
	m.HandleConversationDeleted("user-1", "unrelated")
	got, ok := m.CurrentConversationID("user-1")
	require.True(t, ok)
	assert.Equal(t, active, got)

	// Deleting the active conversation resets it.
	m.HandleConversationDeleted("user-1", active)
	_, ok = m.CurrentConversationID("user-1")
	assert.False(t, ok)
}

func TestSweepIdleDropsOnlyStaleSessions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newManagerWithClock(func() time.Time { return now })

	m.Resolve("stale-user")

	now = now.Add(3 * time.Hour)
	m.Resolve("fresh-user")

	removed := m.sweepIdle(2 * time.Hour)

	assert.Equal(t, 1, removed)
	_, ok := m.CurrentConversationID("stale-user")
	assert.False(t, ok)
	_, ok = m.CurrentConversationID("fresh-user")
	assert.True(t, ok)
}
