package metrics_collectors

import "sync"

// MetricsRegistry holds the registered collectors keyed by name.
type MetricsRegistry struct {
	mu         sync.RWMutex
	collectors map[string]MetricCollector
}

// NewMetricsRegistry creates a new MetricsRegistry instance.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		collectors: make(map[string]MetricCollector),
	}
}

// Register adds a metric collector, replacing any collector with the same name.
func (r *MetricsRegistry) Register(collector MetricCollector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[collector.Name()] = collector
}

// GetCollectors returns a copy of the registered collectors.
func (r *MetricsRegistry) GetCollectors() map[string]MetricCollector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]MetricCollector, len(r.collectors))
	for name, c := range r.collectors {
		out[name] = c
	}
	return out
}
