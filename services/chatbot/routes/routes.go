// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mediassist-ai/mediassist/pkg/extensions"
	"github.com/mediassist-ai/mediassist/services/chatbot/conversation"
	"github.com/mediassist-ai/mediassist/services/chatbot/handlers"
	"github.com/mediassist-ai/mediassist/services/chatbot/middleware"
	"github.com/mediassist-ai/mediassist/services/chatbot/services"
	"github.com/mediassist-ai/mediassist/services/chatbot/store"
)

// SetupRoutes registers the chatbot HTTP surface on router.
//
// The paths mirror the original web client: POST /get for a chat turn
// and the conversation management endpoints around it. Everything
// except /health and /metrics requires authentication.
func SetupRoutes(
	router *gin.Engine,
	authProvider extensions.AuthProvider,
	pipeline *services.ChatTurnPipeline,
	turnStore store.Store,
	sessions *conversation.Manager,
	persistent bool,
) {
	router.GET("/health", handlers.Health(persistent))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(authProvider))
	{
		authed.POST("/get", handlers.Chat(pipeline))
		authed.GET("/conversations", handlers.ListConversations(turnStore))
		authed.GET("/conversation/:id", handlers.GetConversation(turnStore, sessions))
		authed.POST("/end_chat", handlers.EndChat(sessions))
		authed.POST("/conversation/delete/:id", handlers.DeleteConversation(turnStore, sessions))
	}
}
