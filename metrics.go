package reqguard

import "sync/atomic"

// MetricID defines a public type used by reqguard APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricRequestAllowed is an exported constant or variable used by the policy engine.
	MetricRequestAllowed MetricID = iota
	// MetricRequestLimited is an exported constant or variable used by the policy engine.
	MetricRequestLimited
	// MetricCacheError is an exported constant or variable used by the policy engine.
	MetricCacheError
	// MetricAuthSuccess is an exported constant or variable used by the policy engine.
	MetricAuthSuccess
	// MetricAuthRejected is an exported constant or variable used by the policy engine.
	MetricAuthRejected
	// MetricDuplicateRequest is an exported constant or variable used by the policy engine.
	MetricDuplicateRequest
	// MetricLoginSuccess is an exported constant or variable used by the policy engine.
	MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the policy engine.
	MetricLoginFailure
	// MetricLogout is an exported constant or variable used by the policy engine.
	MetricLogout
	// MetricSessionCreated is an exported constant or variable used by the policy engine.
	MetricSessionCreated
	// MetricSessionInvalidated is an exported constant or variable used by the policy engine.
	MetricSessionInvalidated

	metricCount
)

// Metrics is the process-local counter registry. All operations are
// lock-free.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

// MetricsSnapshot defines a public type used by reqguard APIs.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates an empty registry.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns one counter's current value.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot copies every counter into a point-in-time view. Counters may
// advance while the snapshot is being taken; the view is not atomic
// across IDs.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricCount),
	}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
