package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the registry counters
type Metrics struct {
	Registry     *prometheus.Registry
	Applications *prometheus.CounterVec
	Deletions    *prometheus.CounterVec
	Records      prometheus.Gauge
}

// New registers the loan registry collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_registry_applications_total",
			Help: "Loan applications submitted, by outcome.",
		}, []string{"outcome"}),
		Deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_registry_deletions_total",
			Help: "Record deletion requests, by outcome.",
		}, []string{"outcome"}),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loan_registry_records",
			Help: "Records present at the last listing.",
		}),
	}
	m.Registry.MustRegister(m.Applications, m.Deletions, m.Records)
	return m
}
