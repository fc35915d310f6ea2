package reqguard

import (
	"sync"
	"testing"
)

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics()

	m.Inc(MetricRequestAllowed)
	m.Inc(MetricRequestAllowed)
	m.Inc(MetricDuplicateRequest)

	if got := m.Get(MetricRequestAllowed); got != 2 {
		t.Fatalf("allowed = %d", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricRequestAllowed] != 2 {
		t.Fatalf("snapshot allowed = %d", snap.Counters[MetricRequestAllowed])
	}
	if snap.Counters[MetricDuplicateRequest] != 1 {
		t.Fatalf("snapshot duplicate = %d", snap.Counters[MetricDuplicateRequest])
	}
	if snap.Counters[MetricLogout] != 0 {
		t.Fatalf("snapshot logout = %d", snap.Counters[MetricLogout])
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricRequestAllowed)
			}
		}()
	}
	wg.Wait()

	if got := m.Get(MetricRequestAllowed); got != 8000 {
		t.Fatalf("allowed = %d, want 8000", got)
	}
}

func TestMetricsIgnoresUnknownID(t *testing.T) {
	m := NewMetrics()
	m.Inc(metricCount + 1)

	if got := m.Get(metricCount + 1); got != 0 {
		t.Fatalf("unknown id counted: %d", got)
	}
}
