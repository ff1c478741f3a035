package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClientMetrics exposes counters/histograms for backend API traffic and
// the optimistic update lifecycle.
type ClientMetrics struct {
	apiRequests    *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	rollbacks      *prometheus.CounterVec
	droppedRecords *prometheus.CounterVec
}

func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medisync",
			Subsystem: "client",
			Name:      "api_requests_total",
			Help:      "Total backend API requests",
		}, []string{"action", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medisync",
			Subsystem: "client",
			Name:      "api_latency_seconds",
			Help:      "Latency of backend API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medisync",
			Subsystem: "client",
			Name:      "optimistic_rollbacks_total",
			Help:      "Optimistic mutations reverted after a server rejection",
		}, []string{"action"}),
		droppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medisync",
			Subsystem: "client",
			Name:      "dropped_records_total",
			Help:      "Backend records excluded by the normalizer",
		}, []string{"entity"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.apiRequests, m.apiLatency, m.rollbacks, m.droppedRecords)
	return m
}

func (m *ClientMetrics) ObserveRequest(action, status string, seconds float64) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(action, status).Inc()
	m.apiLatency.WithLabelValues(action).Observe(seconds)
}

func (m *ClientMetrics) ObserveRollback(action string) {
	if m == nil {
		return
	}
	m.rollbacks.WithLabelValues(action).Inc()
}

func (m *ClientMetrics) ObserveDroppedRecord(entity string) {
	if m == nil {
		return
	}
	m.droppedRecords.WithLabelValues(entity).Inc()
}
