// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediassist-ai/mediassist/services/chatbot/conversation"
	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
	"github.com/mediassist-ai/mediassist/services/chatbot/middleware"
	"github.com/mediassist-ai/mediassist/services/chatbot/store"
)

// ListConversations handles GET /conversations: one summary per
// conversation the user owns, most recent first.
func ListConversations(turnStore store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authInfo := middleware.GetAuthInfo(c)
		if authInfo == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		summaries, err := turnStore.ListConversations(c.Request.Context(), authInfo.UserID)
		if err != nil {
			slog.Error("Failed to list conversations", "user_id", authInfo.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
			return
		}

		c.JSON(http.StatusOK, datatypes.ConversationListResponse{Conversations: summaries})
	}
}

// GetConversation handles GET /conversation/:id.
//
// # Description
//
// Returns the conversation's turns in timestamp order and points the
// user's session at it, so the next message continues this
// conversation rather than starting a new one. An unknown id returns
// an empty turn list.
func GetConversation(turnStore store.Store, sessions *conversation.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authInfo := middleware.GetAuthInfo(c)
		if authInfo == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		conversationID := c.Param("id")

		turns, err := turnStore.LoadConversation(c.Request.Context(), authInfo.UserID, conversationID)
		if err != nil {
			if errors.Is(err, store.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "conversation storage unavailable"})
				return
			}
			slog.Error("Failed to load conversation",
				"conversation_id", conversationID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
			return
		}

		sessions.SetCurrentConversation(authInfo.UserID, conversationID)

		if turns == nil {
			turns = []datatypes.Turn{}
		}
		c.JSON(http.StatusOK, datatypes.ConversationTurnsResponse{
			ConversationID: conversationID,
			Turns:          turns,
		})
	}
}

// EndChat handles POST /end_chat: the user's next message starts a
// fresh conversation. Idempotent.
func EndChat(sessions *conversation.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authInfo := middleware.GetAuthInfo(c)
		if authInfo == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		sessions.ResetConversation(authInfo.UserID)
		c.JSON(http.StatusOK, gin.H{"status": "ended"})
	}
}

// DeleteConversation handles POST /conversation/delete/:id.
//
// # Description
//
// Removes every turn of the conversation. Deleting an id that does not
// exist (or was already deleted) succeeds with a zero count. If the
// deleted conversation was the user's active one, the session pointer
// is reset so the next message starts fresh.
func DeleteConversation(turnStore store.Store, sessions *conversation.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authInfo := middleware.GetAuthInfo(c)
		if authInfo == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		conversationID := c.Param("id")

		deleted, err := turnStore.DeleteConversation(c.Request.Context(), authInfo.UserID, conversationID)
		if err != nil {
			if errors.Is(err, store.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "conversation storage unavailable"})
				return
			}
			slog.Error("Failed to delete conversation",
				"conversation_id", conversationID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete conversation"})
			return
		}

		sessions.HandleConversationDeleted(authInfo.UserID, conversationID)

		c.JSON(http.StatusOK, datatypes.DeleteConversationResponse{
			ConversationID: conversationID,
			Deleted:        deleted,
		})
	}
}
