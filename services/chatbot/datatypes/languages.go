// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides data structures for the chatbot service.
//
// This file defines the closed set of supported interface languages. The
// service pivots every non-English message through English before retrieval
// and generation, so the set below describes which user-facing languages the
// translation gateway will actually attempt to translate. Codes outside the
// set are accepted by the HTTP surface but make translation a no-op.
package datatypes

import "strings"

// PivotLanguage is the fixed intermediate language for retrieval and
// generation. All non-English messages are translated to the pivot before
// being answered, and answers are translated back. Translation is always
// pivot<->other, never other<->other.
const PivotLanguage = "en"

// supportedLanguages is the closed set of interface language codes.
//
// The knowledge base is indexed with a multilingual embedding model, but the
// generation prompt is English-only, which is why the set is small and fixed
// rather than derived from what the translation providers claim to support.
var supportedLanguages = map[string]struct{}{
	"en": {}, // English
	"hi": {}, // Hindi
	"ta": {}, // Tamil
	"te": {}, // Telugu
}

// IsSupportedLanguage reports whether code names a supported interface
// language. Matching is case-insensitive; "HI" and "hi" are the same code.
func IsSupportedLanguage(code string) bool {
	_, ok := supportedLanguages[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// NormalizeLanguage lowercases and trims a language code, defaulting to the
// pivot language when the code is blank. It does not validate membership in
// the supported set; callers that care use IsSupportedLanguage.
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return PivotLanguage
	}
	return code
}
