// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package answering

import (
	"context"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
)

// UnavailableAnswer is the fixed answer served when the answering
// capability failed to initialize at startup.
const UnavailableAnswer = "The medical knowledge service is currently unavailable. Please try again later."

// UnavailableAnswerer is the static stand-in installed when the real
// answerer cannot be built at startup.
//
// # Description
//
// Once installed it never retries the real backend; recovering requires
// a process restart. Answer always succeeds so the pipeline treats the
// outage as degraded content rather than a failed turn.
type UnavailableAnswerer struct{}

var _ Answerer = (*UnavailableAnswerer)(nil)

// NewUnavailableAnswerer creates the static fallback answerer.
func NewUnavailableAnswerer() *UnavailableAnswerer {
	return &UnavailableAnswerer{}
}

func (a *UnavailableAnswerer) Answer(_ context.Context, _ string) (*datatypes.AnswerResult, error) {
	return &datatypes.AnswerResult{AnswerText: UnavailableAnswer}, nil
}
