// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storyboard"

// ChatTurns counts settled chat turns by outcome (completed, failed, insufficient_tokens).
var ChatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "chat",
	Name:      "turns_total",
	Help:      "Chat turns by settlement outcome.",
}, []string{"outcome"})

// CompletionStreamDuration measures the time from opening an upstream stream to its end.
var CompletionStreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "chat",
	Name:      "completion_stream_seconds",
	Help:      "Duration of upstream completion streams.",
	Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
}, []string{"outcome"})

// LedgerMutations counts committed ledger mutations by transaction type.
var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "mutations_total",
	Help:      "Committed token ledger mutations by transaction type.",
}, []string{"type"})

// LedgerTokens sums the absolute number of tokens moved, by transaction type.
var LedgerTokens = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "tokens_total",
	Help:      "Tokens moved through the ledger by transaction type.",
}, []string{"type"})

// WebhookEvents counts billing webhook deliveries by provider and result.
var WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "billing",
	Name:      "webhook_events_total",
	Help:      "Billing webhook events by provider and result.",
}, []string{"provider", "result"})

var SceneGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "storyboard",
	Name:      "scene_generations_total",
	Help:      "Scene image generations by status.",
}, []string{"status"})
