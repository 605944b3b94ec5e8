package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine transitions by operation and outcome. Registered once
// at startup and shared by the handlers.
type Metrics struct {
	transitions *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		transitions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "carshop",
				Name:      "transitions_total",
				Help:      "State transitions attempted, by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
}

func (m *Metrics) ObserveTransition(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.transitions.WithLabelValues(operation, outcome).Inc()
}
