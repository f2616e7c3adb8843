package reveal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks reveal authorization outcomes.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// NewMetrics creates and registers the reveal metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_reveal_decisions_total",
			Help: "Reveal authorization decisions, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) incrementDecision(authorized bool) {
	if m == nil {
		return
	}
	outcome := "denied"
	if authorized {
		outcome = "authorized"
	}
	m.Decisions.WithLabelValues(outcome).Inc()
}
