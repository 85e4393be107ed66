package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCommerceMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCommerceMetrics(reg)

	metrics.IncCartMutation("add_item")
	metrics.IncCartMutation("add_item")
	metrics.ObserveOrderPlaced(2500)
	metrics.IncPersistWrite("cart-storage")
	metrics.IncPersistFailure("orders-storage")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add_item"); err != nil {
		t.Fatalf("fetch cart mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected cart_mutations=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "state_persist_writes_total", "namespace", "cart-storage"); err != nil {
		t.Fatalf("fetch persist writes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected persist writes=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "state_persist_failures_total", "namespace", "orders-storage"); err != nil {
		t.Fatalf("fetch persist failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected persist failures=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "order_total_cents"); err != nil {
		t.Fatalf("fetch order totals: %v", err)
	} else if got != 2500 {
		t.Fatalf("expected order total sum 2500, got %f", got)
	}
}

func TestCommerceMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *CommerceMetrics
	metrics.IncCartMutation("add_item")
	metrics.ObserveOrderPlaced(100)
	metrics.IncPersistWrite("cart-storage")
	metrics.IncPersistFailure("cart-storage")

	unregistered := NewCommerceMetrics(nil)
	unregistered.IncCartMutation("add_item")
	unregistered.ObserveOrderPlaced(100)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		return metric.GetHistogram().GetSampleSum(), nil
	}
	return 0, fmt.Errorf("histogram %q has no samples", name)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
