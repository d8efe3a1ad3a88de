package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.DatasetsTotal == nil || r.HTTPRequestsTotal == nil || r.EventsGenerated == nil {
		t.Fatal("metrics not initialized")
	}
	if r.PrometheusRegistry() == nil {
		t.Fatal("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordDataset(t *testing.T) {
	r := NewRegistry()
	r.RecordDataset("completed", 200*time.Millisecond, 10, 2, 45)
	r.RecordDataset("completed", 100*time.Millisecond, 5, 0, 25)

	counter, err := r.DatasetsTotal.GetMetricWithLabelValues("completed")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("datasets counter = %v, want 2", metric.Counter.GetValue())
	}

	metric.Reset()
	if err := r.EventsGenerated.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 70 {
		t.Errorf("events counter = %v, want 70", metric.Counter.GetValue())
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/v1/datasets", "200", 10*time.Millisecond)
	r.RecordHTTPRequest("GET", "/v1/datasets", "200", 20*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/v1/datasets", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("requests counter = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRegistryGather(t *testing.T) {
	r := NewRegistry()
	r.RecordWriteFailure("events")

	families, err := r.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "topogen_record_write_failures_total" {
			found = true
		}
	}
	if !found {
		t.Error("write failure metric not gathered")
	}
}
