package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benmeehan/threadpool/internal/metrics_collectors"
	"github.com/benmeehan/threadpool/internal/models"
	"github.com/benmeehan/threadpool/pkg/threadpool"
	"github.com/rs/zerolog"
)

// collectorWorkers is the size of the pool that runs collectors in parallel.
const collectorWorkers = 2

// MetricsService periodically collects pool and process telemetry and logs it.
type MetricsService struct {
	poolID        string
	metricsConfig *models.MetricsConfig
	interval      time.Duration
	timeout       time.Duration
	logger        zerolog.Logger
	registry      *metrics_collectors.MetricsRegistry
	workerPool    *threadpool.ThreadPool

	lastMu sync.Mutex
	last   *models.PoolMetrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMetricsService initializes and returns a new instance of MetricsService.
func NewMetricsService(
	poolID string,
	interval, timeout time.Duration,
	metricsConfig *models.MetricsConfig,
	logger zerolog.Logger,
) *MetricsService {
	return &MetricsService{
		poolID:        poolID,
		metricsConfig: metricsConfig,
		interval:      interval,
		timeout:       timeout,
		logger:        logger,
		registry:      metrics_collectors.NewMetricsRegistry(),
	}
}

// Register adds a collector to the service.
func (m *MetricsService) Register(collector metrics_collectors.MetricCollector) {
	m.registry.Register(collector)
}

// Start initiates periodic metrics collection.
func (m *MetricsService) Start() error {
	if m.ctx != nil {
		m.logger.Warn().Msg("MetricsService is already running")
		return errors.New("metrics service is already running")
	}

	m.logger.Info().Msg("Starting MetricsService...")

	if err := m.validateMetricsConfig(); err != nil {
		m.logger.Error().Err(err).Msg("Invalid metrics configuration")
		return err
	}

	pool, err := threadpool.New(collectorWorkers, threadpool.WithLogger(m.logger))
	if err != nil {
		return err
	}
	m.workerPool = pool

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.wg.Add(1)
	go m.runMetricsCollectionLoop()

	m.logger.Info().Dur("interval", m.interval).Msg("MetricsService started successfully")
	return nil
}

// validateMetricsConfig checks that at least one registered collector is enabled.
func (m *MetricsService) validateMetricsConfig() error {
	if m.metricsConfig == nil {
		return errors.New("metrics configuration is missing")
	}
	if m.interval <= 0 {
		return errors.New("metrics interval must be positive")
	}
	for _, collector := range m.registry.GetCollectors() {
		if collector.IsEnabled(m.metricsConfig) {
			return nil
		}
	}
	return errors.New("no metrics enabled in configuration")
}

// runMetricsCollectionLoop runs the main metrics collection loop.
func (m *MetricsService) runMetricsCollectionLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics := m.collectMetrics()
			m.logger.Info().Interface("metrics", metrics).Msg("Metrics collected successfully")

			m.lastMu.Lock()
			m.last = metrics
			m.lastMu.Unlock()
		case <-m.ctx.Done():
			m.logger.Info().Msg("Stopping metrics collection")
			return
		}
	}
}

// collectMetrics runs every enabled collector on the service's own pool.
func (m *MetricsService) collectMetrics() *models.PoolMetrics {
	metrics := &models.PoolMetrics{
		Timestamp: time.Now().UTC(),
		PoolID:    m.poolID,
		Metrics:   make(map[string]models.Metric),
	}

	ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
	defer cancel()

	var wg sync.WaitGroup
	var metricsMutex sync.Mutex

	for name, collector := range m.registry.GetCollectors() {
		if !collector.IsEnabled(m.metricsConfig) {
			continue
		}

		wg.Add(1)
		err := m.workerPool.ExecuteFunc(func() {
			defer wg.Done()
			collectedValue := collector.Collect(ctx)

			metricsMutex.Lock()
			defer metricsMutex.Unlock()
			metrics.Metrics[name] = models.Metric{
				Value: collectedValue,
				Unit:  collector.Unit(),
			}
		})
		if err != nil {
			wg.Done()
			m.logger.Error().Err(err).Str("collector", name).Msg("Failed to schedule collector")
		}
	}

	wg.Wait()
	return metrics
}

// LastSnapshot returns the most recent metrics, or nil before the first tick.
func (m *MetricsService) LastSnapshot() *models.PoolMetrics {
	m.lastMu.Lock()
	defer m.lastMu.Unlock()
	return m.last
}

// Stop gracefully stops the metrics service.
func (m *MetricsService) Stop() error {
	if m.ctx == nil {
		m.logger.Warn().Msg("MetricsService is not running")
		return errors.New("metrics service is not running")
	}

	m.logger.Info().Msg("Stopping MetricsService...")
	m.cancel()
	m.wg.Wait()
	m.workerPool.Close()

	m.ctx = nil
	m.cancel = nil

	m.logger.Info().Msg("MetricsService stopped successfully")
	return nil
}
