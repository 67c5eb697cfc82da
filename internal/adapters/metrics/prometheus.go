package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopassist_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopassist_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	WebSocketConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopassist_websocket_connections_active",
		Help: "Number of open chat websocket connections",
	})

	MemorySessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shopassist_memory_sessions_active",
		Help: "Sessions held by the in-process session store",
	})

	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopassist_turns_total",
		Help: "Conversation turns by outcome",
	}, []string{"outcome"})

	TurnIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopassist_turn_iterations",
		Help:    "Tool-loop iterations per turn",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
	})

	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopassist_tool_calls_total",
		Help: "Tool invocations by tool and status",
	}, []string{"tool", "status"})

	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopassist_llm_requests_total",
		Help: "Total LLM requests",
	}, []string{"model", "status"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopassist_llm_request_duration_seconds",
		Help:    "LLM request duration",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"model"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shopassist_circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
	}, []string{"name"})

	CatalogSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopassist_catalog_searches_total",
		Help: "Catalog searches by status",
	}, []string{"status"})

	CartActionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopassist_cart_actions_total",
		Help: "Add-to-cart actions emitted",
	})

	RecoveryTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopassist_recovery_turns_total",
		Help: "Per-candidate recovery turns by result",
	}, []string{"result"})
)
