package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestClientMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)
	m.ObserveRequest("cancel_appointment", "200", 0.12)
	m.ObserveRollback("cancel_appointment")
	m.ObserveDroppedRecord("appointment")
}

func TestClientMetricsNilSafe(t *testing.T) {
	var m *ClientMetrics
	m.ObserveRequest("book_appointment", "500", 0.5)
	m.ObserveRollback("pay_billing")
	m.ObserveDroppedRecord("doctor")
}
