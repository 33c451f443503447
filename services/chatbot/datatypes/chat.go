// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains request and response types for the chat-turn endpoint.
// For turn storage types, see turn.go.

package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxMessageContentBytes is the maximum size of one inbound message.
	// Checked in bytes, not runes, to bound memory regardless of script.
	MaxMessageContentBytes = 32 * 1024 // 32KB
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// chatValidate is the validator instance for chat datatypes.
var chatValidate *validator.Validate

func init() {
	chatValidate = validator.New()
	_ = chatValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes enforces the MaxMessageContentBytes bound on a string
// field. Byte length, not rune count.
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxMessageContentBytes
}

// =============================================================================
// Chat Turn Request / Response
// =============================================================================

// ChatTurnRequest is the inbound body for POST /get.
//
// # Description
//
// Carries one user message and its interface language. The endpoint accepts
// both form-encoded bodies (the original web client posts a form) and JSON.
// Languages outside the supported set are accepted - translation simply
// becomes a no-op for them.
//
// # Fields
//
//   - RequestID: Optional client-supplied identifier (UUID v4). Generated
//     server-side when absent; used for tracing and log correlation.
//   - Message: Required. The user's message, at most 32KB.
//   - Language: Optional interface language code; defaults to English.
type ChatTurnRequest struct {
	RequestID string `form:"request_id" json:"request_id" validate:"omitempty,uuid4"`
	Message   string `form:"msg" json:"msg" validate:"required,maxbytes"`
	Language  string `form:"lang" json:"lang"`
}

// Validate validates the request after binding.
func (r *ChatTurnRequest) Validate() error {
	return chatValidate.Struct(r)
}

// EnsureDefaults populates the request id and normalizes the language code.
func (r *ChatTurnRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.New().String()
	}
	r.Language = NormalizeLanguage(r.Language)
}

// =============================================================================
// Answer Result
// =============================================================================

// SourceExcerpt is one retrieved passage that grounded an answer.
type SourceExcerpt struct {
	Source  string  `json:"source"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score,omitempty"`
}

// AnswerResult is what the knowledge answerer produces for one query.
type AnswerResult struct {
	AnswerText string          `json:"answer"`
	Sources    []SourceExcerpt `json:"sources,omitempty"`
}

// =============================================================================
// Conversation Listing Responses
// =============================================================================

// ConversationListResponse is the body for GET /conversations.
type ConversationListResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}

// ConversationTurnsResponse is the body for GET /conversation/:id.
type ConversationTurnsResponse struct {
	ConversationID string `json:"conversation_id"`
	Turns          []Turn `json:"turns"`
}

// DeleteConversationResponse is the body for POST /conversation/delete/:id.
type DeleteConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Deleted        int    `json:"deleted"`
}

// NewTurn builds a Turn stamped with the current UTC time.
func NewTurn(userID, conversationID, role, message, language string) *Turn {
	return &Turn{
		UserID:         userID,
		ConversationID: conversationID,
		Role:           role,
		Message:        message,
		Language:       language,
		Timestamp:      time.Now().UTC(),
	}
}
