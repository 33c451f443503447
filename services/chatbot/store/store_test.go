// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
)

func TestSummarizeTurns(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	turns := []datatypes.TurnProperties{
		{ConversationID: "conv-a", Role: datatypes.RoleUser, Message: "fever and headache", Timestamp: base.UnixMilli()},
		{ConversationID: "conv-a", Role: datatypes.RoleBot, Message: "answer", Timestamp: base.Add(time.Second).UnixMilli()},
		{ConversationID: "conv-a", Role: datatypes.RoleUser, Message: "follow-up question", Timestamp: base.Add(time.Minute).UnixMilli()},
		{ConversationID: "conv-b", Role: datatypes.RoleUser, Message: "मुझे सिरदर्द है", Timestamp: base.Add(time.Hour).UnixMilli()},
	}

	summaries := summarizeTurns(turns)

	require.Len(t, summaries, 2)
	// Newest conversation first.
	assert.Equal(t, "conv-b", summaries[0].ID)
	assert.Equal(t, "मुझे सिरदर्द है", summaries[0].Title)
	assert.Equal(t, "conv-a", summaries[1].ID)
	// Title comes from the first user turn, not the follow-up.
	assert.Equal(t, "fever and headache", summaries[1].Title)
	assert.Equal(t, base, summaries[1].Timestamp)
}

func TestSummarizeTurnsNewestFirstInput(t *testing.T) {
	// The listing query returns turns newest first so the query cap
	// drops old turns, not recent conversations. The fold must still
	// pick the earliest user turn for title and timestamp.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	turns := []datatypes.TurnProperties{
		{ConversationID: "conv-a", Role: datatypes.RoleUser, Message: "latest follow-up", Timestamp: base.Add(time.Hour).UnixMilli()},
		{ConversationID: "conv-a", Role: datatypes.RoleBot, Message: "answer", Timestamp: base.Add(time.Second).UnixMilli()},
		{ConversationID: "conv-a", Role: datatypes.RoleUser, Message: "opening question", Timestamp: base.UnixMilli()},
	}

	summaries := summarizeTurns(turns)

	require.Len(t, summaries, 1)
	assert.Equal(t, "opening question", summaries[0].Title)
	assert.Equal(t, base, summaries[0].Timestamp)
}

func TestSummarizeTurnsTruncatesTitleByRunes(t *testing.T) {
	long := strings.Repeat("क", datatypes.TitleMaxRunes+25)
	turns := []datatypes.TurnProperties{
		{ConversationID: "conv-a", Role: datatypes.RoleUser, Message: long, Timestamp: 1},
	}

	summaries := summarizeTurns(turns)

	require.Len(t, summaries, 1)
	assert.Equal(t, datatypes.TitleMaxRunes, len([]rune(summaries[0].Title)))
}

func TestSummarizeTurnsSkipsBotOnlyConversations(t *testing.T) {
	turns := []datatypes.TurnProperties{
		{ConversationID: "orphan", Role: datatypes.RoleBot, Message: "stray answer", Timestamp: 1},
	}

	assert.Empty(t, summarizeTurns(turns))
}

func TestDisconnectedStore(t *testing.T) {
	s := NewDisconnectedStore()
	ctx := context.Background()

	err := s.AppendTurn(ctx, datatypes.Turn{ConversationID: "c", Role: datatypes.RoleUser})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = s.LoadConversation(ctx, "u", "c")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = s.DeleteConversation(ctx, "u", "c")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	// Listing degrades to an empty result rather than an error.
	summaries, err := s.ListConversations(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
