// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package answering produces grounded answers to medical questions:
// retrieve the most relevant knowledge chunks, then generate an answer
// constrained to them.
package answering

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
	"github.com/mediassist-ai/mediassist/services/llm"
)

var tracer = otel.Tracer("mediassist.chatbot.answering")

// DefaultTopK is how many knowledge chunks ground one answer.
const DefaultTopK = 3

// generationTemperature keeps answers close to the retrieved text.
const generationTemperature = float32(0.3)

// Answerer turns an English question into an English answer.
//
// # Description
//
// Implementations operate entirely in the pivot language. Translation
// in and out of the user's language happens upstream in the pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string) (*datatypes.AnswerResult, error)
}

// RAGAnswerer answers questions from knowledge chunks stored in
// Weaviate.
//
// # Description
//
// Each call runs a nearText search over the MedicalChunk class for the
// top-k most relevant chunks, builds a grounded prompt from them, and
// asks the configured LLM to answer using only that context.
//
// # Thread Safety
//
// RAGAnswerer is safe for concurrent use.
type RAGAnswerer struct {
	client    *weaviate.Client
	llmClient llm.LLMClient
	topK      int
}

var _ Answerer = (*RAGAnswerer)(nil)

// NewRAGAnswerer creates an answerer over an initialized Weaviate
// client and LLM backend. topK values below 1 fall back to DefaultTopK.
func NewRAGAnswerer(client *weaviate.Client, llmClient llm.LLMClient, topK int) *RAGAnswerer {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &RAGAnswerer{
		client:    client,
		llmClient: llmClient,
		topK:      topK,
	}
}

// Answer implements the Answerer interface.
func (a *RAGAnswerer) Answer(ctx context.Context, question string) (*datatypes.AnswerResult, error) {
	ctx, span := tracer.Start(ctx, "RAGAnswerer.Answer")
	defer span.End()

	chunks, err := a.retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("knowledge retrieval failed: %w", err)
	}
	span.SetAttributes(attribute.Int("answering.chunks", len(chunks)))

	prompt := buildGroundedPrompt(question, chunks)
	temperature := generationTemperature
	answer, err := a.llmClient.Generate(ctx, prompt, llm.GenerationParams{
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	sources := make([]datatypes.SourceExcerpt, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, datatypes.SourceExcerpt{
			Source:  chunk.Source,
			Excerpt: chunk.Content,
			Score:   chunk.Additional.Certainty,
		})
	}
	return &datatypes.AnswerResult{
		AnswerText: answer,
		Sources:    sources,
	}, nil
}

func (a *RAGAnswerer) retrieve(ctx context.Context, question string) ([]datatypes.KnowledgeChunkResult, error) {
	nearText := a.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{question})

	resp, err := a.client.GraphQL().Get().
		WithClassName(datatypes.KnowledgeChunkClass).
		WithFields(
			graphql.Field{Name: "content"},
			graphql.Field{Name: "source"},
			graphql.Field{Name: "_additional { certainty }"},
		).
		WithNearText(nearText).
		WithLimit(a.topK).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("knowledge query error: %s", resp.Errors[0].Message)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.KnowledgeChunkQueryResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("error parsing knowledge query response: %w", err)
	}

	chunks := parsed.Get.MedicalChunk
	if len(chunks) == 0 {
		slog.Debug("No knowledge chunks retrieved for question")
	}
	return chunks, nil
}
