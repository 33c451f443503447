// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediassist-ai/mediassist/pkg/extensions"
	"github.com/mediassist-ai/mediassist/services/chatbot/conversation"
	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
	"github.com/mediassist-ai/mediassist/services/chatbot/services"
	"github.com/mediassist-ai/mediassist/services/chatbot/store"
)

// memoryStore is an in-memory Store for route tests.
type memoryStore struct {
	turns []datatypes.Turn
}

var _ store.Store = (*memoryStore)(nil)

func (s *memoryStore) AppendTurn(_ context.Context, turn datatypes.Turn) error {
	s.turns = append(s.turns, turn)
	return nil
}

func (s *memoryStore) ListConversations(_ context.Context, userID string) ([]datatypes.ConversationSummary, error) {
	byConversation := map[string]datatypes.ConversationSummary{}
	for _, t := range s.turns {
		if t.UserID != userID || t.Role != datatypes.RoleUser {
			continue
		}
		if _, seen := byConversation[t.ConversationID]; seen {
			continue
		}
		byConversation[t.ConversationID] = datatypes.ConversationSummary{
			ID:        t.ConversationID,
			Title:     datatypes.TitleFromMessage(t.Message),
			Timestamp: t.Timestamp,
		}
	}
	out := make([]datatypes.ConversationSummary, 0, len(byConversation))
	for _, summary := range byConversation {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *memoryStore) LoadConversation(_ context.Context, userID, conversationID string) ([]datatypes.Turn, error) {
	var out []datatypes.Turn
	for _, t := range s.turns {
		if t.UserID == userID && t.ConversationID == conversationID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memoryStore) DeleteConversation(_ context.Context, userID, conversationID string) (int, error) {
	kept := s.turns[:0]
	deleted := 0
	for _, t := range s.turns {
		if t.UserID == userID && t.ConversationID == conversationID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	s.turns = kept
	return deleted, nil
}

type identityTranslator struct{}

func (identityTranslator) Translate(_ context.Context, text, source, target string) (string, bool) {
	return text, source != target
}

type fixedAnswerer struct{ answer string }

func (a fixedAnswerer) Answer(_ context.Context, _ string) (*datatypes.AnswerResult, error) {
	return &datatypes.AnswerResult{AnswerText: a.answer}, nil
}

type routeFixture struct {
	router   *gin.Engine
	store    *memoryStore
	sessions *conversation.Manager
}

func newRouteFixture() *routeFixture {
	gin.SetMode(gin.TestMode)
	memStore := &memoryStore{}
	sessions := conversation.NewManager()
	pipeline := services.NewChatTurnPipeline(sessions, memStore, identityTranslator{}, fixedAnswerer{answer: "drink plenty of water"})

	router := gin.New()
	SetupRoutes(router, extensions.NewLocalAuthProvider(), pipeline, memStore, sessions, true)
	return &routeFixture{router: router, store: memStore, sessions: sessions}
}

func (f *routeFixture) do(method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestChatEndpointReturnsPlainTextAnswer(t *testing.T) {
	f := newRouteFixture()

	w := f.do(http.MethodPost, "/get", "patient-1",
		url.Values{"msg": {"how do I treat a fever"}, "lang": {"en"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "drink plenty of water", w.Body.String())
	require.Len(t, f.store.turns, 2)
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	f := newRouteFixture()

	w := f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {""}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.store.turns)
}

func TestUnauthenticatedRequestsGet403(t *testing.T) {
	f := newRouteFixture()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/get"},
		{http.MethodGet, "/conversations"},
		{http.MethodGet, "/conversation/some-id"},
		{http.MethodPost, "/end_chat"},
		{http.MethodPost, "/conversation/delete/some-id"},
	} {
		w := f.do(tc.method, tc.path, "", url.Values{"msg": {"hi"}})
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}
	assert.Empty(t, f.store.turns, "no pipeline work before authentication")
}

func TestConversationListingAndIsolation(t *testing.T) {
	f := newRouteFixture()

	f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {"first question"}})
	f.do(http.MethodPost, "/get", "patient-2", url.Values{"msg": {"someone else's question"}})

	w := f.do(http.MethodGet, "/conversations", "patient-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing datatypes.ConversationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Conversations, 1)
	assert.Equal(t, "first question", listing.Conversations[0].Title)
}

func TestEndChatStartsNewConversation(t *testing.T) {
	f := newRouteFixture()

	f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {"question one"}})
	first := f.store.turns[0].ConversationID

	w := f.do(http.MethodPost, "/end_chat", "patient-1", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)

	f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {"question two"}})
	second := f.store.turns[2].ConversationID

	assert.NotEqual(t, first, second)
}

func TestGetConversationResumesIt(t *testing.T) {
	f := newRouteFixture()

	f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {"question one"}})
	convID := f.store.turns[0].ConversationID

	// Start a different conversation, then reopen the first.
	f.do(http.MethodPost, "/end_chat", "patient-1", url.Values{})
	w := f.do(http.MethodGet, "/conversation/"+convID, "patient-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ConversationTurnsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Turns, 2)

	// The next message lands in the reopened conversation.
	f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {"follow-up"}})
	last := f.store.turns[len(f.store.turns)-1]
	assert.Equal(t, convID, last.ConversationID)
}

func TestDeleteConversationIsIdempotentAndResetsSession(t *testing.T) {
	f := newRouteFixture()

	f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {"question one"}})
	convID := f.store.turns[0].ConversationID

	w := f.do(http.MethodPost, "/conversation/delete/"+convID, "patient-1", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.DeleteConversationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Deleted)

	// Deleting again succeeds with a zero count.
	w = f.do(http.MethodPost, "/conversation/delete/"+convID, "patient-1", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Deleted)

	// The deleted conversation's id is never reused.
	f.do(http.MethodPost, "/get", "patient-1", url.Values{"msg": {"after delete"}})
	last := f.store.turns[len(f.store.turns)-1]
	assert.NotEqual(t, convID, last.ConversationID)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	f := newRouteFixture()

	w := f.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"persistent"`)
}

func TestDisconnectedStoreSurfaces503OnChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := conversation.NewManager()
	disconnected := store.NewDisconnectedStore()
	pipeline := services.NewChatTurnPipeline(sessions, disconnected, identityTranslator{}, fixedAnswerer{answer: "x"})

	router := gin.New()
	SetupRoutes(router, extensions.NewLocalAuthProvider(), pipeline, disconnected, sessions, false)

	form := url.Values{"msg": {"hello"}}
	req := httptest.NewRequest(http.MethodPost, "/get", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer patient-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Listing still works, returning an empty history.
	req = httptest.NewRequest(http.MethodGet, "/conversations", nil)
	req.Header.Set("Authorization", "Bearer patient-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var listing datatypes.ConversationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Empty(t, listing.Conversations)
}
