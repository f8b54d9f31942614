package metrics

import "github.com/prometheus/client_golang/prometheus"

// Agent core Prometheus metrics.
var (
	// AgentTurnsTotal counts finished turns by path: tool, chat, fallback.
	AgentTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripagent",
			Name:      "agent_turns_total",
			Help:      "Conversational turns by orchestrator path",
		},
		[]string{"path"},
	)

	AgentTurnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripagent",
			Name:      "agent_turn_duration_seconds",
			Help:      "End-to-end turn duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"path"},
	)

	// RouterDecisionsTotal counts routing outcomes: tool, no_tool, unparseable,
	// invalid_shape, unknown_tool, inactive_tool, generation_error, empty_registry.
	RouterDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripagent",
			Name:      "router_decisions_total",
			Help:      "Intent router outcomes",
		},
		[]string{"outcome"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripagent",
			Name:      "tool_calls_total",
			Help:      "Tool handler invocations by result status",
		},
		[]string{"tool", "status"}, // status: success, error, panic, invalid_params
	)

	ToolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripagent",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool handler duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"tool"},
	)

	// FormatterFallbackTotal counts replies rendered from the deterministic template.
	FormatterFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tripagent",
			Name:      "formatter_fallback_total",
			Help:      "Tool replies rendered by the deterministic template",
		},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripagent",
			Name:      "generation_requests_total",
			Help:      "Text generation requests",
		},
		[]string{"model", "operation", "status"}, // operation: generate, chat
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripagent",
			Name:      "generation_request_duration_seconds",
			Help:      "Text generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model", "operation"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripagent",
			Name:      "generation_tokens_total",
			Help:      "Text generation tokens consumed",
		},
		[]string{"model", "type"}, // prompt, completion
	)
)

var agentMetricsRegistered bool

// RegisterAgentMetrics registers the agent core metrics. Must be called once from main.
func RegisterAgentMetrics() {
	if agentMetricsRegistered {
		return
	}
	prometheus.MustRegister(AgentTurnsTotal)
	prometheus.MustRegister(AgentTurnDuration)
	prometheus.MustRegister(RouterDecisionsTotal)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(ToolCallDuration)
	prometheus.MustRegister(FormatterFallbackTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	agentMetricsRegistered = true
}
