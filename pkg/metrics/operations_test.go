package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOperationMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOperationMetrics(reg)
	started := time.Now().Add(-250 * time.Millisecond)

	m.Observe("cart.refresh", started, "")
	m.Observe("cart.refresh", started, "FETCH_FAILED")
	m.Observe("", started, "")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefront_operation_success_total", map[string]string{"op": "cart.refresh"}); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "storefront_operation_failure_total", map[string]string{"op": "cart.refresh", "code": "FETCH_FAILED"}); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if _, err := fetchCounterValue(mfs, "storefront_operation_success_total", map[string]string{"op": "unknown"}); err != nil {
		t.Fatalf("expected unknown op label: %v", err)
	}

	mf := findMetricFamily(mfs, "storefront_operation_duration_seconds")
	if mf == nil {
		t.Fatal("duration histogram not found")
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), map[string]string{"op": "cart.refresh"}) {
			if metric.GetHistogram().GetSampleCount() != 2 {
				t.Fatalf("expected 2 samples, got %d", metric.GetHistogram().GetSampleCount())
			}
			return
		}
	}
	t.Fatal("duration histogram missing cart.refresh")
}

func TestOperationMetricsNilSafe(t *testing.T) {
	var m *OperationMetrics
	m.Observe("checkout", time.Now(), "")
	NewOperationMetrics(nil).Observe("checkout", time.Now(), "FETCH_FAILED")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
