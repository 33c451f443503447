// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers contains the Gin handlers for the chatbot HTTP
// surface.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
	"github.com/mediassist-ai/mediassist/services/chatbot/middleware"
	"github.com/mediassist-ai/mediassist/services/chatbot/services"
	"github.com/mediassist-ai/mediassist/services/chatbot/store"
)

// Chat handles POST /get: one user message in, one answer out.
//
// # Description
//
// Accepts a form-encoded or JSON body with the message and interface
// language, runs the chat-turn pipeline, and returns the answer as
// plain text in the user's language. Degraded answers (fallback
// apology, unavailable-service notice) still return 200 - the only
// failure surfaced as an HTTP error is losing the user's message.
func Chat(pipeline *services.ChatTurnPipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ChatTurnRequest
		if err := c.ShouldBind(&req); err != nil {
			c.String(http.StatusBadRequest, "invalid request")
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			slog.Warn("Rejected invalid chat request", "error", err)
			c.String(http.StatusBadRequest, "invalid request")
			return
		}

		authInfo := middleware.GetAuthInfo(c)
		if authInfo == nil {
			c.String(http.StatusForbidden, "forbidden")
			return
		}

		answer, err := pipeline.Process(c.Request.Context(), &req, authInfo.UserID)
		if err != nil {
			if errors.Is(err, store.ErrStoreUnavailable) {
				c.String(http.StatusServiceUnavailable, "conversation storage unavailable")
				return
			}
			c.String(http.StatusInternalServerError, "internal error")
			return
		}

		c.String(http.StatusOK, answer)
	}
}
