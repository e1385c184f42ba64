package metrics_collectors

import (
	"context"
	"os"

	"github.com/benmeehan/threadpool/internal/constants"
	"github.com/benmeehan/threadpool/internal/models"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/process"
)

// ProcessMetricCollector collects OS thread count, CPU and memory of the current process.
// Each pool worker holds its own OS thread, so the thread count tracks pool size.
type ProcessMetricCollector struct {
	Logger zerolog.Logger
	Pid    int32
}

// NewProcessMetricCollector returns a collector for the running process.
func NewProcessMetricCollector(logger zerolog.Logger) *ProcessMetricCollector {
	return &ProcessMetricCollector{
		Logger: logger,
		Pid:    int32(os.Getpid()),
	}
}

func (p *ProcessMetricCollector) Name() string {
	return constants.MetricProcess
}

func (p *ProcessMetricCollector) Collect(ctx context.Context) interface{} {
	proc, err := process.NewProcess(p.Pid)
	if err != nil {
		p.Logger.Error().Err(err).Int32("pid", p.Pid).Msg("Failed to open process")
		return nil
	}

	metrics := &models.ProcessMetrics{}

	if threads, err := proc.NumThreadsWithContext(ctx); err == nil {
		metrics.Threads = &threads
	} else {
		p.Logger.Warn().Err(err).Int32("pid", p.Pid).Msg("Failed to get thread count")
	}

	if cpuPercent, err := proc.CPUPercentWithContext(ctx); err == nil {
		metrics.CPUUsage = &cpuPercent
	} else {
		p.Logger.Warn().Err(err).Int32("pid", p.Pid).Msg("Failed to get CPU usage")
	}

	if memInfo, err := proc.MemoryInfoWithContext(ctx); err == nil {
		rss := float64(memInfo.RSS)
		metrics.Memory = &rss
	} else {
		p.Logger.Warn().Err(err).Int32("pid", p.Pid).Msg("Failed to get memory information")
	}

	p.Logger.Debug().Msg("Process metrics collected successfully")
	return metrics
}

func (p *ProcessMetricCollector) IsEnabled(config *models.MetricsConfig) bool {
	return config.MonitorProcess
}

func (p *ProcessMetricCollector) Unit() string {
	return "varied (threads: count, CPU: %, Memory: bytes)"
}

func (p *ProcessMetricCollector) Description() string {
	return "OS thread count, CPU usage (%) and resident memory (bytes) of this process."
}
