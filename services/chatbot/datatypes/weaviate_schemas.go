// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// Weaviate class names used by the chatbot service.
const (
	// ChatTurnClass holds persisted conversation turns. No vectors - turns
	// are filtered and sorted, never semantically searched.
	ChatTurnClass = "ChatTurn"

	// KnowledgeChunkClass holds the ingested medical knowledge base. The
	// ingestion pipeline populates it; the chatbot only queries it.
	KnowledgeChunkClass = "MedicalChunk"
)

// GetChatTurnSchema returns the schema for persisted conversation turns.
func GetChatTurnSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       ChatTurnClass,
		Description: "A single user or bot message within a conversation.",
		Vectorizer:  "none",
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexNullState:  true,
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "user_id",
				DataType:        []string{"text"},
				Description:     "Opaque authenticated user identifier.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "conversation_id",
				DataType:        []string{"text"},
				Description:     "Conversation this turn belongs to (UUID v4).",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "role",
				DataType:        []string{"text"},
				Description:     "Either user or bot.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "message",
				DataType:     []string{"text"},
				Description:  "Message text in the user's interface language.",
				Tokenization: "word",
			},
			{
				Name:            "language",
				DataType:        []string{"text"},
				Description:     "Interface language code of the message.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:        "timestamp",
				DataType:    []string{"int"},
				Description: "Creation time, Unix milliseconds UTC.",
			},
		},
	}
}

// GetKnowledgeChunkSchema returns the schema for the knowledge base class.
//
// The class is vectorized server-side so the answerer can run nearText
// retrieval without a separate embedding hop. The ingestion service owns
// population of this class; the chatbot never writes to it.
func GetKnowledgeChunkSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       KnowledgeChunkClass,
		Description: "A chunk of the ingested medical knowledge base.",
		Vectorizer:  "text2vec-transformers",
		Properties: []*models.Property{
			{
				Name:         "content",
				DataType:     []string{"text"},
				Description:  "The chunk text.",
				Tokenization: "word",
			},
			{
				Name:            "source",
				DataType:        []string{"text"},
				Description:     "Originating document or article of the chunk.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

// EnsureWeaviateSchema creates any missing chatbot classes at startup.
//
// # Description
//
// Checks class existence first so a connection failure is reported as
// an error rather than mistaken for a missing class. The caller decides
// how to degrade; an unreachable Weaviate must never kill the process.
//
// # Outputs
//
//   - error: Non-nil when the existence check or class creation fails,
//     including when the server is unreachable.
func EnsureWeaviateSchema(client *weaviate.Client) error {
	schemaGetters := []func() *models.Class{
		GetChatTurnSchema,
		GetKnowledgeChunkSchema,
	}

	for _, getSchema := range schemaGetters {
		class := getSchema()
		slog.Info("Checking schema", "class", class.Class)

		exists, err := client.Schema().ClassExistenceChecker().
			WithClassName(class.Class).
			Do(context.Background())
		if err != nil {
			return fmt.Errorf("failed to check schema for class %s: %w", class.Class, err)
		}
		if exists {
			slog.Info("Schema already exists", "class", class.Class)
			continue
		}

		slog.Info("Schema not found, creating it...", "class", class.Class)
		if err := client.Schema().ClassCreator().WithClass(class).Do(context.Background()); err != nil {
			return fmt.Errorf("failed to create schema for class %s: %w", class.Class, err)
		}
		slog.Info("Successfully created schema", "class", class.Class)
	}
	return nil
}
