package constants

// Metric collector names
const (
	MetricGoroutines  = "goroutines"
	MetricProcess     = "process"
	MetricPool        = "pool"
	MetricConnections = "connections"
)
