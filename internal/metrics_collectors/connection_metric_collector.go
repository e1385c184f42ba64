package metrics_collectors

import (
	"context"

	"github.com/benmeehan/threadpool/internal/constants"
	"github.com/benmeehan/threadpool/internal/models"
	"github.com/rs/zerolog"
)

// ConnectionCounter reports how many connections are currently being handled.
type ConnectionCounter interface {
	ActiveConnections() int
}

// ConnectionMetricCollector collects the number of in-flight client connections.
type ConnectionMetricCollector struct {
	Logger  zerolog.Logger
	Counter ConnectionCounter
}

// Name returns the identifier for the connection metric collector.
func (c *ConnectionMetricCollector) Name() string {
	return constants.MetricConnections
}

// Collect retrieves the number of active client connections.
func (c *ConnectionMetricCollector) Collect(ctx context.Context) interface{} {
	n := float64(c.Counter.ActiveConnections())
	c.Logger.Debug().Float64("connections", n).Msg("Connection count collected")
	return &n
}

// IsEnabled checks if connection monitoring is enabled and a counter is attached.
func (c *ConnectionMetricCollector) IsEnabled(config *models.MetricsConfig) bool {
	return config.MonitorConns && c.Counter != nil
}

// Unit specifies the unit for the connection count metric.
func (c *ConnectionMetricCollector) Unit() string {
	return "count"
}

// Description provides a summary of the connection metric collected.
func (c *ConnectionMetricCollector) Description() string {
	return "Number of client connections accepted and not yet closed."
}
