package collector

import (
	"maps"
	"sync"
)

// MetricsSink accepts string metrics.
type MetricsSink interface {
	AddStringMetric(key, value string)
}

// MapSink is an in-memory MetricsSink. Later values overwrite earlier ones.
//
// Thread-safety: MapSink is safe for concurrent use.
type MapSink struct {
	mu      sync.Mutex
	metrics map[string]string
}

// NewMapSink creates an empty sink.
func NewMapSink() *MapSink {
	return &MapSink{metrics: make(map[string]string)}
}

// AddStringMetric implements MetricsSink.
func (s *MapSink) AddStringMetric(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[key] = value
}

// Metrics returns a copy of the recorded metrics.
func (s *MapSink) Metrics() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.metrics)
}
