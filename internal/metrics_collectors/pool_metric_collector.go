package metrics_collectors

import (
	"context"

	"github.com/benmeehan/threadpool/internal/constants"
	"github.com/benmeehan/threadpool/internal/models"
	"github.com/benmeehan/threadpool/pkg/threadpool"
	"github.com/rs/zerolog"
)

// PoolStatsProvider is satisfied by *threadpool.ThreadPool.
type PoolStatsProvider interface {
	Stats() threadpool.Stats
}

// PoolMetricCollector reports worker and queue counters of a pool.
type PoolMetricCollector struct {
	Logger zerolog.Logger
	Pool   PoolStatsProvider
}

// Name returns the identifier for the pool metric collector.
func (p *PoolMetricCollector) Name() string {
	return constants.MetricPool
}

// Collect takes a snapshot of the pool counters.
func (p *PoolMetricCollector) Collect(ctx context.Context) interface{} {
	stats := p.Pool.Stats()
	p.Logger.Debug().
		Int("busy", stats.Busy).
		Int("queued", stats.Queued).
		Msg("Pool stats collected")
	return &stats
}

// IsEnabled checks if pool monitoring is enabled and a pool is attached.
func (p *PoolMetricCollector) IsEnabled(config *models.MetricsConfig) bool {
	return config.MonitorPool && p.Pool != nil
}

// Unit specifies the unit for the pool counters.
func (p *PoolMetricCollector) Unit() string {
	return "count"
}

// Description provides a summary of the pool metrics collected.
func (p *PoolMetricCollector) Description() string {
	return "Workers, busy workers, queued jobs and submitted/completed/panicked/exited job totals."
}
