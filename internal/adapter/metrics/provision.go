package metrics

import "github.com/prometheus/client_golang/prometheus"

// ProvisionMetrics holds Prometheus metrics for a provisioning run.
type ProvisionMetrics struct {
	Collections    *prometheus.CounterVec
	StepDuration   *prometheus.HistogramVec
	Runs           *prometheus.CounterVec
	ConnectRetries prometheus.Counter
	LastRunSuccess prometheus.Gauge
}

// NewProvisionMetrics creates and registers provisioning metrics on the given registry.
func NewProvisionMetrics(reg prometheus.Registerer) *ProvisionMetrics {
	m := &ProvisionMetrics{
		Collections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_total",
			Help:      "Collections handled by the provisioner, by collection and outcome.",
		}, []string{"collection", "outcome"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of catalog operations in seconds, by operation.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Provisioner invocations, by action and result.",
		}, []string{"action", "result"}),
		ConnectRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_retries_total",
			Help:      "Ping attempts that failed and were retried while connecting.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run succeeded, 0 otherwise.",
		}),
	}

	reg.MustRegister(m.Collections, m.StepDuration, m.Runs, m.ConnectRetries, m.LastRunSuccess)
	return m
}

// ObserveRun records the overall result of one action.
func (m *ProvisionMetrics) ObserveRun(action string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.Runs.WithLabelValues(action, result).Inc()
	if err != nil {
		m.LastRunSuccess.Set(0)
	} else {
		m.LastRunSuccess.Set(1)
	}
}
