// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package translation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
	"github.com/mediassist-ai/mediassist/services/chatbot/observability"
)

var gatewayTracer = otel.Tracer("mediassist.chatbot.translation")

// Gateway
//
// # Description
//
//	Gateway runs a fixed-order cascade of translation providers. It
//	never returns an error: when a translation is impossible or every
//	provider fails, the caller gets the original text back and the
//	turn proceeds in degraded form.
//
//	Three cases short-circuit before any provider is contacted:
//	  - the text is blank (empty or whitespace only),
//	  - the source and target codes are equal,
//	  - the target language is not supported.
//
//	A provider result is accepted only if it is non-empty and differs
//	from the input (after trimming and case folding): the free
//	endpoints echo the input when they cannot translate a language
//	pair, and an echoed or empty string is indistinguishable from a
//	refusal.
//
// # Assumptions
//
//   - Providers are safe for concurrent use; Gateway adds no locking.
type Gateway struct {
	providers      []Provider
	attemptTimeout time.Duration
}

// NewGateway builds a gateway over providers, tried in order.
func NewGateway(providers ...Provider) *Gateway {
	return &Gateway{
		providers:      providers,
		attemptTimeout: defaultAttemptTimeout,
	}
}

// NewDefaultGateway wires the standard production cascade:
// LibreTranslate, then MyMemory, then the Google web endpoint.
func NewDefaultGateway(libreBaseURL, libreAPIKey, myMemoryEmail string) *Gateway {
	return NewGateway(
		NewLibreTranslateProvider(libreBaseURL, libreAPIKey),
		NewMyMemoryProvider(myMemoryEmail),
		NewGoogleTranslateProvider(),
	)
}

// Translate
//
// # Description
//
//	Translates text from source to target, cascading through the
//	configured providers. Returns the translated text and true on
//	success, or the original text and false when translation was
//	skipped or every provider failed.
func (g *Gateway) Translate(ctx context.Context, text, source, target string) (string, bool) {
	ctx, span := gatewayTracer.Start(ctx, "Gateway.Translate")
	defer span.End()
	span.SetAttributes(
		attribute.String("translation.source", source),
		attribute.String("translation.target", target),
	)

	if strings.TrimSpace(text) == "" {
		return text, false
	}
	if source == target {
		return text, false
	}
	if !datatypes.IsSupportedLanguage(target) {
		slog.Warn("Unsupported translation target, passing text through", "target", target)
		return text, false
	}

	for _, provider := range g.providers {
		translated, ok := g.attempt(ctx, provider, text, source, target)
		if ok {
			span.SetAttributes(attribute.String("translation.provider", provider.Name()))
			return translated, true
		}
	}

	slog.Warn("All translation providers failed, passing text through",
		"source", source, "target", target)
	observability.RecordTranslationFallthrough()
	return text, false
}

func (g *Gateway) attempt(ctx context.Context, provider Provider, text, source, target string) (string, bool) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	translated, err := provider.Translate(attemptCtx, text, source, target)
	if err != nil {
		slog.Warn("Translation provider failed",
			"provider", provider.Name(), "error", err)
		observability.RecordTranslationAttempt(provider.Name(), "error")
		return "", false
	}
	if strings.TrimSpace(translated) == "" {
		slog.Warn("Translation provider returned empty text, treating as failure",
			"provider", provider.Name())
		observability.RecordTranslationAttempt(provider.Name(), "error")
		return "", false
	}
	if isEcho(text, translated) {
		slog.Debug("Translation provider echoed input, treating as failure",
			"provider", provider.Name())
		observability.RecordTranslationAttempt(provider.Name(), "echo")
		return "", false
	}
	observability.RecordTranslationAttempt(provider.Name(), "ok")
	return translated, true
}

func isEcho(input, output string) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(output))
}
