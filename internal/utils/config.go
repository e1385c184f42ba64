package utils

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/benmeehan/threadpool/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	Pool struct {
		Size int `yaml:"size"` // Number of worker threads, defaults to the CPU count
	} `yaml:"pool"`

	Server struct {
		Enabled       bool          `yaml:"enabled"`        // Enable/disable the connection listener
		Address       string        `yaml:"address"`        // TCP address to listen on
		StaticDir     string        `yaml:"static_dir"`     // Directory holding hello.html and 404.html
		ReadTimeout   time.Duration `yaml:"read_timeout"`   // Deadline for reading the request line
		SleepDuration time.Duration `yaml:"sleep_duration"` // How long the /sleep route blocks its worker
	} `yaml:"server"`

	Logging struct {
		Level string `yaml:"level"` // zerolog level name (debug, info, warn, error)
	} `yaml:"logging"`

	Metrics struct {
		Enabled           bool          `yaml:"enabled"`            // Enable/disable periodic metrics logging
		Interval          time.Duration `yaml:"interval"`           // Interval between snapshots
		Timeout           time.Duration `yaml:"timeout"`            // Timeout for collecting one snapshot
		MonitorGoroutines bool          `yaml:"monitor_goroutines"` // Report runtime goroutine count
		MonitorProcess    bool          `yaml:"monitor_process"`    // Report OS threads, CPU and RSS of this process
		MonitorPool       bool          `yaml:"monitor_pool"`       // Report pool queue and worker counters
		MonitorConns      bool          `yaml:"monitor_conns"`      // Report active connections
	} `yaml:"metrics"`
}

const (
	DefaultAddress       = "127.0.0.1:7878"
	DefaultStaticDir     = "static"
	DefaultReadTimeout   = 5 * time.Second
	DefaultSleepDuration = 5 * time.Second
	DefaultLogLevel      = "info"
	DefaultInterval      = 30 * time.Second
	DefaultTimeout       = 5 * time.Second
)

// LoadConfig loads the YAML configuration from the specified file.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	exists, err := fileClient.IsFileExists(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("config file %s not found", filename)
	}

	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// applyDefaults fills in zero values with defaults.
func (c *Config) applyDefaults() {
	if c.Pool.Size == 0 {
		c.Pool.Size = runtime.NumCPU()
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.SleepDuration == 0 {
		c.Server.SleepDuration = DefaultSleepDuration
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = DefaultInterval
	}
	if c.Metrics.Timeout == 0 {
		c.Metrics.Timeout = DefaultTimeout
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Pool.Size < 1 {
		return fmt.Errorf("pool.size must be at least 1, got %d", c.Pool.Size)
	}
	if c.Server.ReadTimeout < 0 {
		return errors.New("server.read_timeout must not be negative")
	}
	if c.Server.SleepDuration < 0 {
		return errors.New("server.sleep_duration must not be negative")
	}
	if c.Metrics.Interval < 0 || c.Metrics.Timeout < 0 {
		return errors.New("metrics.interval and metrics.timeout must not be negative")
	}
	return nil
}
