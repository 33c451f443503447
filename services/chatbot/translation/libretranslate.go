// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultLibreTranslateURL = "https://libretranslate.com/translate"

// LibreTranslateProvider translates through a LibreTranslate instance.
//
// # Description
//
//	Posts JSON {q, source, target, format} to the configured endpoint
//	and reads back {translatedText}. Works against the public instance
//	or a self-hosted one.
//
// # Limitations
//
//   - The public instance rate-limits aggressively; production
//     deployments should point BaseURL at a self-hosted server.
type LibreTranslateProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ Provider = (*LibreTranslateProvider)(nil)

// NewLibreTranslateProvider builds a provider against baseURL, falling
// back to the public instance when baseURL is empty. apiKey may be
// empty for keyless instances.
func NewLibreTranslateProvider(baseURL, apiKey string) *LibreTranslateProvider {
	if baseURL == "" {
		baseURL = defaultLibreTranslateURL
	}
	return &LibreTranslateProvider{
		httpClient: newProviderHTTPClient(),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (p *LibreTranslateProvider) Name() string { return "libretranslate" }

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (p *LibreTranslateProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(libreTranslateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal LibreTranslate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create LibreTranslate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("LibreTranslate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read LibreTranslate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LibreTranslate returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed libreTranslateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse LibreTranslate response: %w", err)
	}
	if parsed.TranslatedText == "" {
		return "", fmt.Errorf("LibreTranslate returned an empty translation")
	}
	return parsed.TranslatedText, nil
}
