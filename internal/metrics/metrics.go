// Package metrics holds the Prometheus collectors shared by the agent.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "leadqual"
	subsystem = "agent"
)

var OracleLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "oracle_latency_seconds",
		Help:      "Latency of language model calls",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 10, 15, 20, 30},
	},
	[]string{"call_site", "status"},
)

var OracleCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "oracle_calls_total",
		Help:      "Language model calls by call site and outcome",
	},
	[]string{"call_site", "outcome"}, // outcome: ok, error, malformed, fallback
)

var OracleTokens = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "oracle_tokens_total",
		Help:      "Tokens used by the language model",
	},
	[]string{"model", "type"}, // type: input, output, total
)

var PhaseTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "phase_transitions_total",
		Help:      "Dialogue phase changes",
	},
	[]string{"from", "to"},
)

var LeadsSaved = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "leads_saved_total",
		Help:      "Lead persistence attempts by result",
	},
	[]string{"status"}, // status: saved, failed
)

var ActiveConversations = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_conversations",
		Help:      "Conversations currently held in memory",
	},
)

// Registry is the private registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		OracleLatency, OracleCalls, OracleTokens, PhaseTransitions, LeadsSaved, ActiveConversations,
	)
}

