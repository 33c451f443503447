// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"go.opentelemetry.io/otel"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
)

var tracer = otel.Tracer("mediassist.chatbot.store")

// maxTurnsPerQuery bounds a single conversation or listing query. A
// conversation approaching this size is expired by the idle sweeper
// long before the limit matters.
const maxTurnsPerQuery = 2000

// WeaviateStore persists chat turns as ChatTurn objects in Weaviate.
//
// # Thread Safety
//
// WeaviateStore is safe for concurrent use. The underlying Weaviate
// client handles connection pooling.
type WeaviateStore struct {
	client *weaviate.Client
}

var _ Store = (*WeaviateStore)(nil)

// NewWeaviateStore creates a store over an initialized Weaviate client.
func NewWeaviateStore(client *weaviate.Client) *WeaviateStore {
	return &WeaviateStore{client: client}
}

// AppendTurn implements the Store interface.
func (s *WeaviateStore) AppendTurn(ctx context.Context, turn datatypes.Turn) error {
	ctx, span := tracer.Start(ctx, "WeaviateStore.AppendTurn")
	defer span.End()

	result, err := s.client.Data().Creator().
		WithClassName(datatypes.ChatTurnClass).
		WithProperties(turn.Properties()).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to persist chat turn: %w", err)
	}
	if result == nil || result.Object == nil {
		return fmt.Errorf("weaviate created a chat turn but returned a nil result")
	}

	slog.Debug("Persisted chat turn",
		"conversation_id", turn.ConversationID,
		"role", turn.Role,
		"weaviateUUID", result.Object.ID)
	return nil
}

// ListConversations implements the Store interface.
//
// # Description
//
// There is no conversation object in storage, so the listing is built
// by aggregating the user's turns: per conversation id, the earliest
// user turn supplies the title and timestamp. Summaries come back most
// recent first.
func (s *WeaviateStore) ListConversations(ctx context.Context, userID string) ([]datatypes.ConversationSummary, error) {
	ctx, span := tracer.Start(ctx, "WeaviateStore.ListConversations")
	defer span.End()

	where := filters.Where().
		WithPath([]string{"user_id"}).
		WithOperator(filters.Equal).
		WithValueText(userID)

	resp, err := s.client.GraphQL().Get().
		WithClassName(datatypes.ChatTurnClass).
		WithFields(
			graphql.Field{Name: "conversation_id"},
			graphql.Field{Name: "role"},
			graphql.Field{Name: "message"},
			graphql.Field{Name: "timestamp"},
		).
		WithWhere(where).
		// Newest first: when the user's turn count exceeds the query
		// cap, it is the oldest conversations that fall off the
		// listing, never the most recent ones.
		WithSort(graphql.Sort{Path: []string{"timestamp"}, Order: graphql.Desc}).
		WithLimit(maxTurnsPerQuery).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.ChatTurnQueryResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("error parsing conversation listing response: %w", err)
	}

	summaries := summarizeTurns(parsed.Get.ChatTurn)
	slog.Debug("Listed conversations", "user_id", userID, "count", len(summaries))
	return summaries, nil
}

// summarizeTurns folds a turn listing into one summary per
// conversation, newest conversation first. The earliest user turn of
// each conversation supplies its title and timestamp; the fold does
// not depend on the input order.
func summarizeTurns(turns []datatypes.TurnProperties) []datatypes.ConversationSummary {
	byConversation := make(map[string]*datatypes.ConversationSummary)
	for _, t := range turns {
		if t.Role != datatypes.RoleUser {
			continue
		}
		turn := datatypes.TurnFromProperties(t)
		existing, seen := byConversation[t.ConversationID]
		if seen && !turn.Timestamp.Before(existing.Timestamp) {
			continue
		}
		byConversation[t.ConversationID] = &datatypes.ConversationSummary{
			ID:        t.ConversationID,
			Title:     datatypes.TitleFromMessage(t.Message),
			Timestamp: turn.Timestamp,
		}
	}

	summaries := make([]datatypes.ConversationSummary, 0, len(byConversation))
	for _, s := range byConversation {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp.After(summaries[j].Timestamp)
	})
	return summaries
}

// LoadConversation implements the Store interface.
func (s *WeaviateStore) LoadConversation(ctx context.Context, userID, conversationID string) ([]datatypes.Turn, error) {
	ctx, span := tracer.Start(ctx, "WeaviateStore.LoadConversation")
	defer span.End()

	where := conversationFilter(userID, conversationID)

	resp, err := s.client.GraphQL().Get().
		WithClassName(datatypes.ChatTurnClass).
		WithFields(
			graphql.Field{Name: "user_id"},
			graphql.Field{Name: "conversation_id"},
			graphql.Field{Name: "role"},
			graphql.Field{Name: "message"},
			graphql.Field{Name: "language"},
			graphql.Field{Name: "timestamp"},
		).
		WithWhere(where).
		WithSort(graphql.Sort{Path: []string{"timestamp"}, Order: graphql.Asc}).
		WithLimit(maxTurnsPerQuery).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation %s: %w", conversationID, err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.ChatTurnQueryResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("error parsing conversation response: %w", err)
	}

	turns := make([]datatypes.Turn, 0, len(parsed.Get.ChatTurn))
	for _, props := range parsed.Get.ChatTurn {
		turns = append(turns, datatypes.TurnFromProperties(props))
	}
	return turns, nil
}

// DeleteConversation implements the Store interface.
func (s *WeaviateStore) DeleteConversation(ctx context.Context, userID, conversationID string) (int, error) {
	ctx, span := tracer.Start(ctx, "WeaviateStore.DeleteConversation")
	defer span.End()

	resp, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(datatypes.ChatTurnClass).
		WithWhere(conversationFilter(userID, conversationID)).
		WithOutput("minimal").
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversation %s: %w", conversationID, err)
	}
	if resp == nil || resp.Results == nil {
		return 0, nil
	}

	deleted := int(resp.Results.Successful)
	if resp.Results.Failed > 0 {
		slog.Warn("Some chat turns failed to delete",
			"conversation_id", conversationID, "failed", resp.Results.Failed)
	}
	slog.Info("Deleted conversation", "conversation_id", conversationID, "turns", deleted)
	return deleted, nil
}

// conversationFilter scopes a query to one conversation owned by one
// user. Both conditions are required so a forged conversation id never
// crosses user boundaries.
func conversationFilter(userID, conversationID string) *filters.WhereBuilder {
	return filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{
			filters.Where().
				WithPath([]string{"user_id"}).
				WithOperator(filters.Equal).
				WithValueText(userID),
			filters.Where().
				WithPath([]string{"conversation_id"}).
				WithOperator(filters.Equal).
				WithValueText(conversationID),
		})
}
