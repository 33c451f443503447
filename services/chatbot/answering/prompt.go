// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package answering

import (
	"fmt"
	"strings"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
)

// buildGroundedPrompt assembles the generation prompt from the question
// and the retrieved knowledge chunks. When retrieval returned nothing
// the model is told so rather than being handed an empty context block.
func buildGroundedPrompt(question string, chunks []datatypes.KnowledgeChunkResult) string {
	var sb strings.Builder

	sb.WriteString("Answer the medical question using only the context below.\n")
	sb.WriteString("If the context does not contain the answer, say you do not have enough information ")
	sb.WriteString("and recommend consulting a doctor. Do not invent facts.\n\n")

	if len(chunks) == 0 {
		sb.WriteString("Context: (no relevant passages were found)\n\n")
	} else {
		sb.WriteString("Context:\n")
		for i, chunk := range chunks {
			fmt.Fprintf(&sb, "[%d] %s\n", i+1, strings.TrimSpace(chunk.Content))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Question: %s\n", strings.TrimSpace(question))
	sb.WriteString("Answer:")
	return sb.String()
}
