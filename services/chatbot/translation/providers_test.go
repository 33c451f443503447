// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibreTranslateProviderTranslate(t *testing.T) {
	var gotBody libreTranslateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(libreTranslateResponse{TranslatedText: "नमस्ते"})
	}))
	defer server.Close()

	p := NewLibreTranslateProvider(server.URL, "")
	out, err := p.Translate(context.Background(), "hello", "en", "hi")

	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", out)
	assert.Equal(t, "hello", gotBody.Q)
	assert.Equal(t, "en", gotBody.Source)
	assert.Equal(t, "hi", gotBody.Target)
}

func TestLibreTranslateProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"slow down"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewLibreTranslateProvider(server.URL, "")
	_, err := p.Translate(context.Background(), "hello", "en", "hi")

	assert.ErrorContains(t, err, "status 429")
}

func TestParseGTXResponse(t *testing.T) {
	// Shape returned by the gtx endpoint for a two-sentence input.
	body := []byte(`[[["నమస్కారం. ","Hello. ",null,null,10],["ఎలా ఉన్నారు?","How are you?",null,null,10]],null,"en"]`)

	out, err := parseGTXResponse(body)

	require.NoError(t, err)
	assert.Equal(t, "నమస్కారం. ఎలా ఉన్నారు?", out)
}

func TestParseGTXResponseEmpty(t *testing.T) {
	_, err := parseGTXResponse([]byte(`[]`))
	assert.Error(t, err)
}
