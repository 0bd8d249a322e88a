// Package metrics defines and registers all custom Prometheus metrics for the
// library system API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// AuthAttemptsTotal counts authentication attempts passing through the Auth
// middleware.
// Labels:
//   - scheme: "Basic", "Bearer", "none" (no usable header), or the rejected scheme word
//   - outcome: "accepted" or "rejected"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by scheme and outcome.",
	},
	[]string{"scheme", "outcome"},
)

// TokensIssuedTotal counts session tokens minted for authenticated requests.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// CapabilityDenialsTotal counts capability-gate rejections.
// Label:
//   - capability: the capability that was required (e.g. "create")
var CapabilityDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "capability_denials_total",
		Help:      "Total number of requests denied by capability checks.",
	},
	[]string{"capability"},
)
