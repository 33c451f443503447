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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const googleTranslateEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslateProvider translates through the unofficial gtx web
// endpoint used by the browser widget.
//
// # Limitations
//
//   - Unofficial endpoint: no SLA, and Google may throttle or change
//     the response shape without notice. It sits last in the cascade
//     for that reason.
type GoogleTranslateProvider struct {
	httpClient *http.Client
}

var _ Provider = (*GoogleTranslateProvider)(nil)

func NewGoogleTranslateProvider() *GoogleTranslateProvider {
	return &GoogleTranslateProvider{httpClient: newProviderHTTPClient()}
}

func (p *GoogleTranslateProvider) Name() string { return "google" }

func (p *GoogleTranslateProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleTranslateEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create Google Translate request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Google Translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Google Translate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Google Translate returned status %d: %s", resp.StatusCode, string(body))
	}

	return parseGTXResponse(body)
}

// parseGTXResponse extracts translated text from the gtx response, a
// nested JSON array of the form [[["translated","original",...],...],...].
// The translation of a multi-sentence input arrives as one segment per
// sentence; segments are concatenated in order.
func parseGTXResponse(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("failed to parse Google Translate response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("Google Translate returned an empty response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("failed to parse Google Translate segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("Google Translate returned no translated segments")
	}
	return sb.String(), nil
}
