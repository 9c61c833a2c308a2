package observability

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metrics records application measurements.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a measurement.
type Tag struct {
	Key   string
	Value string
}

// T is shorthand for Tag{key, value}.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)           {}
func (NoopMetrics) Gauge(string, float64, ...Tag)           {}
func (NoopMetrics) Histogram(string, float64, ...Tag)       {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag)    {}

// InMemoryMetrics keeps measurements in maps. Used by tests and exposed by
// the worker's /metrics endpoint.
type InMemoryMetrics struct {
	mu         sync.RWMutex
	counters   map[string]int64
	gauges     map[string]float64
	histograms map[string][]float64
	timings    map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	m := &InMemoryMetrics{}
	m.Reset()
	return m
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[formatKey(name, tags)] += value
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[formatKey(name, tags)] = value
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	m.histograms[key] = append(m.histograms[key], value)
}

func (m *InMemoryMetrics) Timing(name string, d time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	m.timings[key] = append(m.timings[key], d)
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[formatKey(name, tags)]
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[formatKey(name, tags)]
}

func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timings[formatKey(name, tags)]
}

// Snapshot copies counters and gauges, keyed by name plus tags.
func (m *InMemoryMetrics) Snapshot() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]float64, len(m.counters)+len(m.gauges))
	for k, v := range m.counters {
		out[k] = float64(v)
	}
	for k, v := range m.gauges {
		out[k] = v
	}
	return out
}

func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
	m.gauges = make(map[string]float64)
	m.histograms = make(map[string][]float64)
	m.timings = make(map[string][]time.Duration)
}

// formatKey renders name{k=v,...} with tags sorted by key.
func formatKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	parts := make([]string, len(sorted))
	for i, t := range sorted {
		parts[i] = t.Key + "=" + t.Value
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

// Metric names.
const (
	MetricOperationTotal    = "pulse.operation.total"
	MetricOperationDuration = "pulse.operation.duration"
	MetricOperationErrors   = "pulse.operation.errors"

	MetricTasksCreated   = "pulse.tasks.created"
	MetricTasksCompleted = "pulse.tasks.completed"
	MetricTasksDeleted   = "pulse.tasks.deleted"

	MetricActivityRecomputed      = "pulse.activity.recomputed"
	MetricActivityRecomputeTiming = "pulse.activity.recompute.duration"
	MetricActivityCleared         = "pulse.activity.cleared"

	MetricSummaryCacheHit   = "pulse.summary_cache.hit"
	MetricSummaryCacheMiss  = "pulse.summary_cache.miss"
	MetricSummaryCacheError = "pulse.summary_cache.error"

	MetricOutboxPublished    = "pulse.outbox.published"
	MetricOutboxFailed       = "pulse.outbox.failed"
	MetricOutboxDeadLettered = "pulse.outbox.dead_lettered"
	MetricOutboxLag          = "pulse.outbox.lag_seconds"

	MetricEventsConsumed = "pulse.events.consumed"
)
