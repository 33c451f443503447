// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedLanguage(t *testing.T) {
	for _, code := range []string{"en", "hi", "ta", "te", "HI", " ta "} {
		assert.True(t, IsSupportedLanguage(code), code)
	}
	for _, code := range []string{"fr", "de", "", "hindi"} {
		assert.False(t, IsSupportedLanguage(code), code)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "hi", NormalizeLanguage(" HI "))
	assert.Equal(t, PivotLanguage, NormalizeLanguage(""))
	assert.Equal(t, PivotLanguage, NormalizeLanguage("   "))
	// Unknown codes pass through; membership is checked elsewhere.
	assert.Equal(t, "fr", NormalizeLanguage("fr"))
}

func TestChatTurnRequestValidation(t *testing.T) {
	req := &ChatTurnRequest{Message: "hello", Language: "HI"}
	req.EnsureDefaults()

	require.NoError(t, req.Validate())
	assert.Equal(t, "hi", req.Language)
	_, err := uuid.Parse(req.RequestID)
	assert.NoError(t, err, "request id is generated when absent")
}

func TestChatTurnRequestRejectsEmptyMessage(t *testing.T) {
	req := &ChatTurnRequest{}
	req.EnsureDefaults()

	assert.Error(t, req.Validate())
}

func TestChatTurnRequestRejectsOversizedMessage(t *testing.T) {
	req := &ChatTurnRequest{Message: strings.Repeat("a", MaxMessageContentBytes+1)}
	req.EnsureDefaults()

	assert.Error(t, req.Validate())
}

func TestTurnPropertiesRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	turn := Turn{
		UserID:         "user-1",
		ConversationID: "conv-1",
		Role:           RoleUser,
		Message:        "తలనొప్పికి ఏమి తీసుకోవాలి?",
		Language:       "te",
		Timestamp:      ts,
	}

	props := turn.Properties()
	assert.Equal(t, ts.UnixMilli(), props["timestamp"])

	rebuilt := TurnFromProperties(TurnProperties{
		UserID:         "user-1",
		ConversationID: "conv-1",
		Role:           RoleUser,
		Message:        turn.Message,
		Language:       "te",
		Timestamp:      ts.UnixMilli(),
	})
	assert.Equal(t, turn, rebuilt)
}

func TestTitleFromMessage(t *testing.T) {
	short := "What causes migraines?"
	assert.Equal(t, short, TitleFromMessage(short))

	long := strings.Repeat("க", TitleMaxRunes) + "overflow"
	title := TitleFromMessage(long)
	assert.Equal(t, TitleMaxRunes, len([]rune(title)))
	assert.Equal(t, strings.Repeat("க", TitleMaxRunes), title)
}

func TestTitleFromMessageBlankFallsBack(t *testing.T) {
	// A whitespace-only message passes validation and persists, so the
	// listing must still get a non-empty title.
	assert.Equal(t, FallbackTitle, TitleFromMessage(""))
	assert.Equal(t, FallbackTitle, TitleFromMessage("   \t\n"))
}
