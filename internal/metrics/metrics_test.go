package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewHTTPMetricsReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewHTTPMetrics([]float64{10, 1}, registry)
	second := NewHTTPMetrics(nil, registry)

	first.ReqTotal.WithLabelValues("GET", "/ping", "200").Inc()
	got := testutil.ToFloat64(second.ReqTotal.WithLabelValues("GET", "/ping", "200"))
	if got != 1 {
		t.Fatalf("expected shared counter value 1, got %v", got)
	}
}

func TestDomainMetricsObserve(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewDomainMetrics(registry)

	m.ObserveSnapshot(ResultOK, 3)
	m.ObserveSnapshot(ResultPartial, 1)
	m.ObserveSnapshot(ResultOK, 2)
	m.ObserveOrder(ResultOK)
	m.ObserveReportRefresh("checkout", ResultOK)

	if got := testutil.ToFloat64(m.CommissionSnapshots.WithLabelValues(ResultOK)); got != 2 {
		t.Fatalf("expected 2 ok snapshots, got %v", got)
	}
	if got := testutil.ToFloat64(m.OrdersPlaced.WithLabelValues(ResultOK)); got != 1 {
		t.Fatalf("expected 1 order, got %v", got)
	}
	if got := testutil.CollectAndCount(m.CommissionLevels); got != 1 {
		t.Fatalf("expected histogram collected once, got %d", got)
	}

	var nilMetrics *DomainMetrics
	nilMetrics.ObserveOrder(ResultError)
}

func TestDurationMillis(t *testing.T) {
	if got := DurationMillis(1500 * time.Microsecond); got != 1.5 {
		t.Fatalf("expected 1.5ms, got %v", got)
	}
}
