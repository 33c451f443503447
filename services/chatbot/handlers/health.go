// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health. Reports "lightweight" when the service
// is running without a conversation store.
func Health(persistent bool) gin.HandlerFunc {
	mode := "persistent"
	if !persistent {
		mode = "lightweight"
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"mode":   mode,
		})
	}
}
