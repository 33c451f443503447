// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package translation implements the multilingual translation layer: a
// set of interchangeable machine-translation providers and a gateway
// that cascades through them, degrading to the original text when every
// provider fails.
package translation

import (
	"context"
	"net/http"
	"time"
)

// Provider is a single machine-translation backend.
//
// # Description
//
//	Translate converts text from the source language to the target
//	language, both given as ISO 639-1 codes. Implementations return an
//	error for any transport or protocol failure; they do not judge the
//	quality of the result. Echo detection is the gateway's job.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	Translate(ctx context.Context, text, source, target string) (string, error)
}

// defaultAttemptTimeout bounds a single provider call so a slow backend
// cannot stall the whole cascade.
const defaultAttemptTimeout = 8 * time.Second

func newProviderHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultAttemptTimeout}
}
