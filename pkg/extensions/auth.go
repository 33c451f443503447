// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the pluggable collaborator contracts of the
// chatbot service.
//
// The chatbot trusts an external authentication system to establish user
// identity; it never validates credentials itself. AuthProvider is the seam
// where a deployment plugs in its identity system (JWT validation, session
// lookup, SSO). The default LocalAuthProvider trusts the presented token as
// an opaque user identifier, which is appropriate for single-tenant local
// deployments and for tests.
package extensions

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthorized is returned when authentication fails. Provider
// implementations should wrap this error with additional context.
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo contains identity information returned after successful
// authentication. UserID is the only required field and must never be empty.
type AuthInfo struct {
	// UserID is the opaque unique identifier for the authenticated user.
	UserID string

	// Name is the user's display name. May be empty.
	Name string

	// Email is the user's email address. May be empty.
	Email string
}

// AuthProvider validates authentication tokens and returns user identity.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// The token format is implementation-specific (JWT, session id, API key).
type AuthProvider interface {
	// Validate checks the token and returns the user's identity.
	//
	// Returns ErrUnauthorized (possibly wrapped) when the token is missing
	// or invalid; any other error indicates a provider failure and is also
	// treated as an authentication failure by the middleware.
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// LocalAuthProvider is the default provider for local deployments.
//
// It trusts the bearer token as the user id without validating it:
// identity is established upstream (reverse proxy, gateway) and the
// chatbot does not re-validate it. An empty token is still rejected -
// an unauthenticated request must never reach the pipeline.
type LocalAuthProvider struct{}

var _ AuthProvider = (*LocalAuthProvider)(nil)

// NewLocalAuthProvider creates the default local provider.
func NewLocalAuthProvider() *LocalAuthProvider {
	return &LocalAuthProvider{}
}

// Validate implements AuthProvider.
func (p *LocalAuthProvider) Validate(_ context.Context, token string) (*AuthInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	return &AuthInfo{UserID: token}, nil
}
