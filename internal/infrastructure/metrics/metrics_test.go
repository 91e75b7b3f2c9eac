package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.OperationsTotal == nil || m.HTTPRequests == nil || m.SyncAttempts == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.OperationsTotal.WithLabelValues("buy_usd", "ok").Inc()
	m.OperationDuration.WithLabelValues("buy_usd").Observe(0.01)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}
