// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"strings"
	"time"
)

// =============================================================================
// Roles
// =============================================================================

// Turn roles. A conversation is an alternating sequence of user and bot
// turns; the bot turn for a message is always written after the user turn it
// answers.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// TitleMaxRunes is the maximum length of a conversation title derived from
// the first user message. Truncation is by rune, not byte, so Devanagari and
// Tamil titles are never cut mid-character.
const TitleMaxRunes = 40

// =============================================================================
// Turn
// =============================================================================

// Turn is a single persisted message within a conversation.
//
// # Description
//
// Turn is the unit of conversation storage. It is immutable once written;
// ordering within a conversation is by Timestamp. The ConversationStore owns
// this type exclusively - nothing else writes turns.
//
// # Fields
//
//   - UserID: Opaque authenticated user identifier. Supplied by the auth
//     provider; the chatbot never interprets it.
//   - ConversationID: Opaque, globally unique conversation identifier
//     (UUID v4). Never reused once its conversation is deleted.
//   - Role: RoleUser or RoleBot.
//   - Message: The message text in the user's interface language.
//   - Language: Interface language code of Message (e.g. "hi"). Both turns
//     of one exchange carry the same language.
//   - Timestamp: UTC instant the turn was created, supplied by the caller.
//
// # Assumptions
//
//   - Timestamps within one conversation are monotonically non-decreasing
//     because turns are appended by a single pipeline invocation in order.
type Turn struct {
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Message        string    `json:"message"`
	Language       string    `json:"language"`
	Timestamp      time.Time `json:"timestamp"`
}

// TurnProperties is the Weaviate property set for a ChatTurn object.
//
// Timestamps are stored as Unix milliseconds so the field can be sorted and
// range-filtered without Weaviate date parsing.
type TurnProperties struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Message        string `json:"message"`
	Language       string `json:"language"`
	Timestamp      int64  `json:"timestamp"`
}

// Properties converts a Turn into its Weaviate property map.
func (t *Turn) Properties() map[string]interface{} {
	return map[string]interface{}{
		"user_id":         t.UserID,
		"conversation_id": t.ConversationID,
		"role":            t.Role,
		"message":         t.Message,
		"language":        t.Language,
		"timestamp":       t.Timestamp.UTC().UnixMilli(),
	}
}

// TurnFromProperties rebuilds a Turn from queried Weaviate properties.
func TurnFromProperties(p TurnProperties) Turn {
	return Turn{
		UserID:         p.UserID,
		ConversationID: p.ConversationID,
		Role:           p.Role,
		Message:        p.Message,
		Language:       p.Language,
		Timestamp:      time.UnixMilli(p.Timestamp).UTC(),
	}
}

// =============================================================================
// Conversation Summary
// =============================================================================

// ConversationSummary is the derived listing record for one conversation.
//
// There is no standalone conversation object in storage - a conversation is
// the set of turns sharing (user_id, conversation_id). The summary is built
// by aggregation: the earliest user turn supplies both the title and the
// conversation timestamp.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// FallbackTitle is the listing title for a conversation whose first user
// message is blank. A whitespace-only message is valid input, so the case
// is reachable and must not produce an empty title.
const FallbackTitle = "Chat: (no message)"

// TitleFromMessage derives a conversation title from its first user message,
// trimmed and truncated to TitleMaxRunes runes. Blank messages get
// FallbackTitle.
func TitleFromMessage(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return FallbackTitle
	}
	runes := []rune(message)
	if len(runes) <= TitleMaxRunes {
		return message
	}
	return string(runes[:TitleMaxRunes])
}
