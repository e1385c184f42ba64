package metrics_collectors

import (
	"context"
	"testing"

	"github.com/benmeehan/threadpool/internal/models"
	"github.com/benmeehan/threadpool/pkg/threadpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	stats threadpool.Stats
}

func (f *fakePool) Stats() threadpool.Stats { return f.stats }

type fakeCounter int

func (f fakeCounter) ActiveConnections() int { return int(f) }

func TestMetricsRegistry_Register(t *testing.T) {
	r := NewMetricsRegistry()
	r.Register(&GoroutineMetricCollector{Logger: zerolog.Nop()})
	r.Register(&GoroutineMetricCollector{Logger: zerolog.Nop()})
	r.Register(&PoolMetricCollector{Logger: zerolog.Nop()})

	collectors := r.GetCollectors()
	assert.Len(t, collectors, 2)
	assert.Contains(t, collectors, "goroutines")
	assert.Contains(t, collectors, "pool")
}

func TestGoroutineMetricCollector_Collect(t *testing.T) {
	c := &GoroutineMetricCollector{Logger: zerolog.Nop()}

	v, ok := c.Collect(context.Background()).(*float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, *v, float64(1))

	assert.True(t, c.IsEnabled(&models.MetricsConfig{MonitorGoroutines: true}))
	assert.False(t, c.IsEnabled(&models.MetricsConfig{}))
}

func TestProcessMetricCollector_Collect(t *testing.T) {
	c := NewProcessMetricCollector(zerolog.Nop())

	metrics, ok := c.Collect(context.Background()).(*models.ProcessMetrics)
	require.True(t, ok)
	require.NotNil(t, metrics.Threads)
	assert.GreaterOrEqual(t, *metrics.Threads, int32(1))
}

func TestPoolMetricCollector_Collect(t *testing.T) {
	pool := &fakePool{stats: threadpool.Stats{Workers: 4, Busy: 1, Queued: 3, Submitted: 10}}
	c := &PoolMetricCollector{Logger: zerolog.Nop(), Pool: pool}

	stats, ok := c.Collect(context.Background()).(*threadpool.Stats)
	require.True(t, ok)
	assert.Equal(t, pool.stats, *stats)

	assert.True(t, c.IsEnabled(&models.MetricsConfig{MonitorPool: true}))
	assert.False(t, (&PoolMetricCollector{}).IsEnabled(&models.MetricsConfig{MonitorPool: true}))
}

func TestConnectionMetricCollector_Collect(t *testing.T) {
	c := &ConnectionMetricCollector{Logger: zerolog.Nop(), Counter: fakeCounter(5)}

	v, ok := c.Collect(context.Background()).(*float64)
	require.True(t, ok)
	assert.Equal(t, float64(5), *v)
	assert.True(t, c.IsEnabled(&models.MetricsConfig{MonitorConns: true}))
}
