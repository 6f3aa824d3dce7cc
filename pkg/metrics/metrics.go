package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crmhub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crmhub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// MeetingOperations counts meeting requests by operation and outcome
	// (ok, invalid, not_found, error).
	MeetingOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "crmhub", Name: "meeting_operations_total", Help: "Meeting requests by operation and outcome."},
		[]string{"operation", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(MeetingOperations)
}
