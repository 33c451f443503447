// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package services contains the chat-turn orchestration: the fixed
// sequence that turns one inbound user message into one persisted,
// answered exchange.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mediassist-ai/mediassist/services/chatbot/answering"
	"github.com/mediassist-ai/mediassist/services/chatbot/conversation"
	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
	"github.com/mediassist-ai/mediassist/services/chatbot/observability"
	"github.com/mediassist-ai/mediassist/services/chatbot/store"
)

var tracer = otel.Tracer("mediassist.chatbot.services")

// FallbackApology is the fixed degraded answer substituted when the
// answerer fails mid-request. It carries every supported language so it
// needs no back-translation, which also guarantees the user sees it
// verbatim even when the translation layer is down too.
const FallbackApology = "⚠️ ఏదో పొరపాటు జరిగింది. / कुछ गलती हो गई। / ஏதோ தவறு ஏற்பட்டது. / Sorry, something went wrong."

// Translator is the translation capability the pipeline needs: a call
// that never fails, returning the original text when translation was
// not possible.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, bool)
}

// ChatTurnPipeline executes one complete chat turn.
//
// # Description
//
// The turn sequence is fixed:
//
//  1. Resolve the user's current conversation id.
//  2. Persist the user turn. Failure here aborts the whole turn - a
//     lost user message must be surfaced, never silently dropped.
//  3. Translate the message into English for retrieval and generation.
//  4. Ask the answerer. Failure substitutes FallbackApology and skips
//     back-translation.
//  5. Translate the answer back into the user's language.
//  6. Persist the bot turn, best effort. A storage failure here is
//     logged and counted but never fails the turn the user already
//     paid an LLM call for.
//
// # Thread Safety
//
// ChatTurnPipeline is safe for concurrent use; all state lives in its
// injected collaborators.
type ChatTurnPipeline struct {
	sessions   *conversation.Manager
	turnStore  store.Store
	translator Translator
	answerer   answering.Answerer
}

// NewChatTurnPipeline wires the pipeline from its collaborators.
func NewChatTurnPipeline(
	sessions *conversation.Manager,
	turnStore store.Store,
	translator Translator,
	answerer answering.Answerer,
) *ChatTurnPipeline {
	return &ChatTurnPipeline{
		sessions:   sessions,
		turnStore:  turnStore,
		translator: translator,
		answerer:   answerer,
	}
}

// Process runs one chat turn and returns the answer text in the user's
// interface language.
//
// # Outputs
//
//   - string: The answer to display, possibly degraded content.
//   - error: Non-nil only when the inbound user turn could not be
//     persisted; wraps store.ErrStoreUnavailable in that case.
func (p *ChatTurnPipeline) Process(ctx context.Context, req *datatypes.ChatTurnRequest, userID string) (string, error) {
	ctx, span := tracer.Start(ctx, "ChatTurnPipeline.Process")
	defer span.End()
	span.SetAttributes(
		attribute.String("chat.request_id", req.RequestID),
		attribute.String("chat.language", req.Language),
	)

	start := time.Now()
	outcome := "ok"
	defer func() {
		observability.RecordChatTurn(outcome, time.Since(start))
	}()

	conversationID := p.sessions.Resolve(userID)
	span.SetAttributes(attribute.String("chat.conversation_id", conversationID))

	userTurn := datatypes.NewTurn(userID, conversationID, datatypes.RoleUser, req.Message, req.Language)
	if err := p.turnStore.AppendTurn(ctx, *userTurn); err != nil {
		observability.RecordStoreWrite(datatypes.RoleUser, "error")
		outcome = "error"
		slog.Error("Failed to persist user turn, aborting chat turn",
			"request_id", req.RequestID, "conversation_id", conversationID, "error", err)
		return "", fmt.Errorf("failed to persist user message: %w", err)
	}
	observability.RecordStoreWrite(datatypes.RoleUser, "ok")

	question, _ := p.translator.Translate(ctx, req.Message, req.Language, datatypes.PivotLanguage)

	var answerText string
	result, err := p.answerer.Answer(ctx, question)
	if err != nil {
		// Degraded content, not a failed turn. The apology is already
		// multilingual, so back-translation is skipped.
		outcome = "degraded"
		slog.Error("Answerer failed, substituting fallback apology",
			"request_id", req.RequestID, "conversation_id", conversationID, "error", err)
		answerText = FallbackApology
	} else {
		answerText, _ = p.translator.Translate(ctx, result.AnswerText, datatypes.PivotLanguage, req.Language)
	}

	botTurn := datatypes.NewTurn(userID, conversationID, datatypes.RoleBot, answerText, req.Language)
	if err := p.turnStore.AppendTurn(ctx, *botTurn); err != nil {
		observability.RecordStoreWrite(datatypes.RoleBot, "error")
		slog.Warn("Failed to persist bot turn, answer still returned",
			"request_id", req.RequestID, "conversation_id", conversationID, "error", err)
	} else {
		observability.RecordStoreWrite(datatypes.RoleBot, "ok")
	}

	return answerText, nil
}
