// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scripted provider for cascade tests.
type fakeProvider struct {
	name   string
	result string
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Translate(_ context.Context, _, _, _ string) (string, error) {
	f.calls++
	return f.result, f.err
}

func TestGatewayUsesFirstSuccessfulProvider(t *testing.T) {
	first := &fakeProvider{name: "first", result: "नमस्ते"}
	second := &fakeProvider{name: "second", result: "should not be reached"}
	gw := NewGateway(first, second)

	out, ok := gw.Translate(context.Background(), "hello", "en", "hi")

	require.True(t, ok)
	assert.Equal(t, "नमस्ते", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestGatewayCascadesPastFailures(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("rate limited")}
	second := &fakeProvider{name: "second", result: "hello", err: nil} // echo
	third := &fakeProvider{name: "third", result: "வணக்கம்"}
	gw := NewGateway(first, second, third)

	out, ok := gw.Translate(context.Background(), "hello", "en", "ta")

	require.True(t, ok)
	assert.Equal(t, "வணக்கம்", out)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 1, third.calls)
}

func TestGatewayReturnsOriginalWhenAllProvidersFail(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", err: errors.New("down")}
	gw := NewGateway(first, second)

	out, ok := gw.Translate(context.Background(), "hello there", "en", "hi")

	assert.False(t, ok)
	assert.Equal(t, "hello there", out)
}

func TestGatewayTreatsEchoAsFailure(t *testing.T) {
	// Echo comparison is case-insensitive and ignores surrounding
	// whitespace; the free endpoints vary both.
	echoing := &fakeProvider{name: "echo", result: "  HELLO  "}
	gw := NewGateway(echoing)

	out, ok := gw.Translate(context.Background(), "hello", "en", "hi")

	assert.False(t, ok)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 1, echoing.calls)
}

func TestGatewayTreatsEmptyResultAsFailure(t *testing.T) {
	// A provider can return ("", nil); the gateway must not accept an
	// empty translation, regardless of provider-side guarantees.
	empty := &fakeProvider{name: "empty", result: "   "}
	fallback := &fakeProvider{name: "fallback", result: "నమస్కారం"}
	gw := NewGateway(empty, fallback)

	out, ok := gw.Translate(context.Background(), "hello", "en", "te")

	require.True(t, ok)
	assert.Equal(t, "నమస్కారం", out)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestGatewayShortCircuits(t *testing.T) {
	provider := &fakeProvider{name: "never", result: "x"}
	gw := NewGateway(provider)

	tests := []struct {
		name   string
		text   string
		source string
		target string
	}{
		{"blank text", "   ", "en", "hi"},
		{"same language", "hello", "en", "en"},
		{"unsupported target", "hello", "en", "fr"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := gw.Translate(context.Background(), tc.text, tc.source, tc.target)
			assert.False(t, ok)
			assert.Equal(t, tc.text, out)
		})
	}
	assert.Equal(t, 0, provider.calls, "no provider should be contacted on short-circuit paths")
}
