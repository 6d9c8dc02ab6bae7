package waitlist

import (
	"errors"

	"github.com/buildrs/buildrs-api/pkg/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCreated   = "created"
	outcomeDuplicate = "duplicate"
	outcomeInvalid   = "invalid"
	outcomeError     = "error"
)

type SignupMetrics struct {
	signups *prometheus.CounterVec
}

// NewSignupMetrics registers waitlist_signups_total on reg. A nil reg yields
// a working but unexported counter.
func NewSignupMetrics(reg prometheus.Registerer) *SignupMetrics {
	signups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Waitlist registration attempts by outcome.",
		},
		[]string{"outcome"},
	)

	if reg != nil {
		if err := reg.Register(signups); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					signups = existing
				}
			}
		}
	}

	for _, outcome := range []string{outcomeCreated, outcomeDuplicate, outcomeInvalid, outcomeError} {
		signups.WithLabelValues(outcome)
	}

	return &SignupMetrics{signups: signups}
}

// registerCircuitGauges exposes the publisher breaker. State is the numeric
// circuitbreaker.CircuitState: 0 closed, 1 open, 2 half-open.
func registerCircuitGauges(reg prometheus.Registerer, stream string, breaker circuitbreaker.CircuitBreaker) {
	if reg == nil {
		return
	}

	labels := prometheus.Labels{"stream": stream}
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "waitlist_signup_publisher_circuit_state",
			Help:        "Signup event publisher circuit state (0 closed, 1 open, 2 half-open).",
			ConstLabels: labels,
		}, func() float64 { return float64(breaker.State()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "waitlist_signup_publisher_consecutive_failures",
			Help:        "Consecutive failed signup event publishes.",
			ConstLabels: labels,
		}, func() float64 { return float64(breaker.Metrics().FailureCount) }),
	}

	for _, g := range gauges {
		// A second publisher on the same registry keeps the first one's gauges.
		_ = reg.Register(g)
	}
}

func (m *SignupMetrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(outcome).Inc()
}
