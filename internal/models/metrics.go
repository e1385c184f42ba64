package models

import "time"

// PoolMetrics is a snapshot of the pool and its host process at a specific time
type PoolMetrics struct {
	Timestamp time.Time         `json:"timestamp"`
	PoolID    string            `json:"pool_id"`
	Metrics   map[string]Metric `json:"metrics"`
}

// Metric is a single collected value with its unit
type Metric struct {
	Value interface{} `json:"value"`
	Unit  string      `json:"unit"`
}

// ProcessMetrics contains OS level metrics for the running process
type ProcessMetrics struct {
	Threads  *int32   `json:"threads,omitempty"`
	CPUUsage *float64 `json:"cpu_usage,omitempty"`
	Memory   *float64 `json:"memory,omitempty"`
}

// MetricsConfig selects which collectors run
type MetricsConfig struct {
	MonitorGoroutines bool `json:"monitor_goroutines"`
	MonitorProcess    bool `json:"monitor_process"`
	MonitorPool       bool `json:"monitor_pool"`
	MonitorConns      bool `json:"monitor_conns"`
}
