package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks resolution outcomes.
type Metrics struct {
	ContactsCreated prometheus.Counter
	ContactsMatched *prometheus.CounterVec
}

// NewMetrics creates and registers the resolver metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ContactsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_contacts_created_total",
			Help: "Contacts created in the registry because no match was found",
		}),
		ContactsMatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_contacts_matched_total",
			Help: "Contacts resolved to an existing registry record, by matching key",
		}, []string{"key"}),
	}
}

func (m *Metrics) incrementCreated() {
	if m == nil {
		return
	}
	m.ContactsCreated.Inc()
}

func (m *Metrics) incrementMatched(key string) {
	if m == nil {
		return
	}
	m.ContactsMatched.WithLabelValues(key).Inc()
}
