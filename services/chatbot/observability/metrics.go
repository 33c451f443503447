// Copyright (C) 2025 MediAssist AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =========================================================================
// Chat turn metrics
// =========================================================================

var (
	chatTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediassist",
		Subsystem: "chat",
		Name:      "turns_total",
		Help:      "Total chat turns processed, labeled by outcome.",
	}, []string{"outcome"})

	chatTurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mediassist",
		Subsystem: "chat",
		Name:      "turn_duration_seconds",
		Help:      "End-to-end chat turn latency in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

// RecordChatTurn
//
// # Description
//
//	Records one completed chat turn with its outcome ("ok", "degraded",
//	or "error") and wall-clock duration.
func RecordChatTurn(outcome string, duration time.Duration) {
	chatTurnsTotal.WithLabelValues(outcome).Inc()
	chatTurnDuration.Observe(duration.Seconds())
}

// =========================================================================
// Translation metrics
// =========================================================================

var (
	translationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediassist",
		Subsystem: "translation",
		Name:      "attempts_total",
		Help:      "Translation provider attempts, labeled by provider and outcome.",
	}, []string{"provider", "outcome"})

	translationFallthroughTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mediassist",
		Subsystem: "translation",
		Name:      "fallthrough_total",
		Help:      "Requests where every translation provider failed and the original text was passed through.",
	})
)

// RecordTranslationAttempt records a single provider attempt. Outcome is
// one of "ok", "echo", or "error".
func RecordTranslationAttempt(provider, outcome string) {
	translationAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordTranslationFallthrough records a request where the cascade was
// exhausted without a usable translation.
func RecordTranslationFallthrough() {
	translationFallthroughTotal.Inc()
}

// =========================================================================
// Store metrics
// =========================================================================

var (
	storeWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediassist",
		Subsystem: "store",
		Name:      "writes_total",
		Help:      "Conversation store writes, labeled by role and outcome.",
	}, []string{"role", "outcome"})
)

// RecordStoreWrite records one turn write attempt against the
// conversation store.
func RecordStoreWrite(role, outcome string) {
	storeWritesTotal.WithLabelValues(role, outcome).Inc()
}
