// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package chatbot assembles the multilingual medical chatbot service:
// translation gateway, retrieval-augmented answering, conversation
// persistence, and the HTTP surface that ties them together.
//
// # Degraded Modes
//
// The service is built to keep answering rather than crash:
//
//   - No Weaviate: conversation persistence and knowledge retrieval are
//     replaced by a disconnected store and a static unavailable
//     answerer (lightweight mode).
//   - LLM backend init failure: the static unavailable answerer is
//     installed and never retried until process restart.
//   - Translation provider failures: handled inside the gateway, which
//     degrades to the original text.
package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mediassist-ai/mediassist/pkg/extensions"
	"github.com/mediassist-ai/mediassist/services/chatbot/answering"
	"github.com/mediassist-ai/mediassist/services/chatbot/conversation"
	"github.com/mediassist-ai/mediassist/services/chatbot/datatypes"
	"github.com/mediassist-ai/mediassist/services/chatbot/routes"
	chatservices "github.com/mediassist-ai/mediassist/services/chatbot/services"
	"github.com/mediassist-ai/mediassist/services/chatbot/store"
	"github.com/mediassist-ai/mediassist/services/chatbot/translation"
	"github.com/mediassist-ai/mediassist/services/llm"
)

// Service is the chatbot lifecycle contract.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// Config holds chatbot configuration options. All fields have defaults
// applied by New(), so the zero value is a runnable local service.
type Config struct {
	// Port is the HTTP server port. Default: 8000
	Port int

	// LLMBackend specifies the LLM provider.
	// Valid values: "openai", "ollama". Default: "ollama"
	LLMBackend string

	// WeaviateURL is the Weaviate URL. If empty or invalid, the
	// service runs in lightweight mode without persistence or
	// knowledge retrieval.
	WeaviateURL string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "mediassist-otel-collector:4317"
	OTelEndpoint string

	// LibreTranslateURL overrides the LibreTranslate endpoint.
	LibreTranslateURL string

	// LibreTranslateAPIKey is the optional LibreTranslate API key.
	LibreTranslateAPIKey string

	// MyMemoryEmail raises the MyMemory daily quota when set.
	MyMemoryEmail string

	// RetrievalTopK is how many knowledge chunks ground one answer.
	// Default: answering.DefaultTopK
	RetrievalTopK int

	// SessionIdleTimeout is how long a session may idle before its
	// conversation pointer is forgotten. Default: 2 hours.
	SessionIdleTimeout time.Duration
}

type service struct {
	config         Config
	router         *gin.Engine
	weaviateClient *weaviate.Client
	llmClient      llm.LLMClient
	sessions       *conversation.Manager
	sweeper        *conversation.Sweeper
	turnStore      store.Store
	answerer       answering.Answerer
	tracerCleanup  func(context.Context)
}

var _ Service = (*service)(nil)

// New creates a chatbot Service.
//
// # Description
//
// Initialization order:
//  1. Apply configuration defaults.
//  2. Initialize OpenTelemetry tracing.
//  3. Connect to Weaviate (optional; lightweight mode on failure).
//  4. Create the LLM client and the answerer - a failure here installs
//     the static unavailable answerer instead of aborting startup.
//  5. Build the translation gateway, session manager, and pipeline.
//  6. Register HTTP routes.
//
// # Outputs
//
//   - Service: Ready-to-run chatbot service.
//   - error: Non-nil only for failures with no degraded fallback
//     (currently just the tracer).
func New(cfg Config) (Service, error) {
	s := &service{
		config:   applyConfigDefaults(cfg),
		sessions: conversation.NewManager(),
	}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	s.initWeaviate()
	s.initStore()
	s.initAnswerer()

	translator := translation.NewDefaultGateway(
		s.config.LibreTranslateURL, s.config.LibreTranslateAPIKey, s.config.MyMemoryEmail)
	pipeline := chatservices.NewChatTurnPipeline(s.sessions, s.turnStore, translator, s.answerer)

	s.sweeper = conversation.NewSweeper(s.sessions, s.config.SessionIdleTimeout, 0)
	s.sweeper.Start()

	s.initRouter(pipeline)
	return s, nil
}

// Run implements the Service interface.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting chatbot server", "port", s.config.Port)
	return s.router.Run(addr)
}

// Router implements the Service interface.
func (s *service) Router() *gin.Engine {
	return s.router
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "ollama"
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "mediassist-otel-collector:4317"
	}
	if cfg.RetrievalTopK == 0 {
		cfg.RetrievalTopK = answering.DefaultTopK
	}
	if cfg.SessionIdleTimeout == 0 {
		cfg.SessionIdleTimeout = conversation.DefaultIdleTimeout
	}
	return cfg
}

// initTracer sets up the OTLP trace exporter. The gRPC connection is
// lazy, so an absent collector does not fail startup.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("chatbot-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}
	return cleanup, nil
}

// initWeaviate connects to Weaviate when a valid URL is configured.
// Any failure leaves s.weaviateClient nil and the service in
// lightweight mode.
func (s *service) initWeaviate() {
	weaviateURL := strings.Trim(s.config.WeaviateURL, "\"' ")

	if weaviateURL == "" || !strings.Contains(weaviateURL, "http") {
		slog.Info("Weaviate URL not configured, running in lightweight mode")
		return
	}

	parsedURL, err := url.Parse(weaviateURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		slog.Warn("Weaviate URL is invalid, running in lightweight mode",
			"url", weaviateURL, "error", err)
		return
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	})
	if err != nil {
		slog.Warn("Failed to create Weaviate client, running in lightweight mode", "error", err)
		return
	}

	// An unreachable server must degrade, not crash: the client stays
	// nil and the disconnected store / unavailable answerer take over.
	if err := datatypes.EnsureWeaviateSchema(client); err != nil {
		slog.Warn("Weaviate unreachable at startup, running in lightweight mode",
			"url", weaviateURL, "error", err)
		return
	}

	s.weaviateClient = client
	slog.Info("Weaviate client initialized", "url", weaviateURL)
}

func (s *service) initStore() {
	if s.weaviateClient == nil {
		s.turnStore = store.NewDisconnectedStore()
		return
	}
	s.turnStore = store.NewWeaviateStore(s.weaviateClient)
}

// initAnswerer builds the RAG answerer, or installs the static
// unavailable answerer when the LLM backend or Weaviate are not
// usable. The fallback is permanent for the life of the process.
func (s *service) initAnswerer() {
	if s.weaviateClient == nil {
		slog.Warn("No knowledge index available, installing unavailable answerer")
		s.answerer = answering.NewUnavailableAnswerer()
		return
	}

	var err error
	switch s.config.LLMBackend {
	case "openai":
		s.llmClient, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI LLM backend")
	case "ollama":
		s.llmClient, err = llm.NewOllamaClient()
		slog.Info("Using Ollama LLM backend")
	default:
		slog.Warn("Unknown LLM backend, defaulting to ollama", "backend", s.config.LLMBackend)
		s.llmClient, err = llm.NewOllamaClient()
	}
	if err != nil {
		slog.Error("Failed to initialize LLM client, installing unavailable answerer", "error", err)
		s.answerer = answering.NewUnavailableAnswerer()
		return
	}

	s.answerer = answering.NewRAGAnswerer(s.weaviateClient, s.llmClient, s.config.RetrievalTopK)
}

func (s *service) initRouter(pipeline *chatservices.ChatTurnPipeline) {
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("chatbot-service"))

	routes.SetupRoutes(s.router, extensions.NewLocalAuthProvider(), pipeline,
		s.turnStore, s.sessions, s.weaviateClient != nil)
}

func (s *service) cleanup() {
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}
