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
)

const myMemoryEndpoint = "https://api.mymemory.translated.net/get"

// MyMemoryProvider translates through the MyMemory translation memory
// API. It needs no key for modest volumes; providing a contact email
// raises the daily quota.
type MyMemoryProvider struct {
	httpClient *http.Client
	email      string
}

var _ Provider = (*MyMemoryProvider)(nil)

// NewMyMemoryProvider builds a provider. email may be empty.
func NewMyMemoryProvider(email string) *MyMemoryProvider {
	return &MyMemoryProvider{
		httpClient: newProviderHTTPClient(),
		email:      email,
	}
}

func (p *MyMemoryProvider) Name() string { return "mymemory" }

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus json.RawMessage `json:"responseStatus"`
}

func (p *MyMemoryProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", source+"|"+target)
	if p.email != "" {
		params.Set("de", p.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, myMemoryEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create MyMemory request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("MyMemory request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read MyMemory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("MyMemory returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed myMemoryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse MyMemory response: %w", err)
	}
	// MyMemory reports quota and language errors with a 200 body whose
	// responseStatus is a quoted string rather than an integer.
	if parsed.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("MyMemory returned an empty translation")
	}
	return parsed.ResponseData.TranslatedText, nil
}
