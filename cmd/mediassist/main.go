// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/mediassist-ai/mediassist/pkg/logging"
	"github.com/mediassist-ai/mediassist/services/chatbot"
)

func main() {
	logging.Setup(logging.FromEnv())

	cfg := chatbot.Config{
		Port:                 getEnvInt("CHATBOT_PORT", 8000),
		LLMBackend:           getEnvString("LLM_BACKEND_TYPE", "ollama"),
		WeaviateURL:          os.Getenv("WEAVIATE_SERVICE_URL"),
		OTelEndpoint:         getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "mediassist-otel-collector:4317"),
		LibreTranslateURL:    os.Getenv("LIBRETRANSLATE_URL"),
		LibreTranslateAPIKey: os.Getenv("LIBRETRANSLATE_API_KEY"),
		MyMemoryEmail:        os.Getenv("MYMEMORY_EMAIL"),
	}

	slog.Info("Starting chatbot",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
		"weaviate_url", cfg.WeaviateURL,
	)

	svc, err := chatbot.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create chatbot: %v", err)
	}

	if err := svc.Run(); err != nil {
		log.Fatalf("Chatbot error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
