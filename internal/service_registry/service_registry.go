package service_registry

import (
	"errors"
	"fmt"

	"github.com/benmeehan/threadpool/internal/metrics_collectors"
	"github.com/benmeehan/threadpool/internal/models"
	"github.com/benmeehan/threadpool/internal/services"
	"github.com/benmeehan/threadpool/internal/utils"
	"github.com/benmeehan/threadpool/pkg/file"
	"github.com/benmeehan/threadpool/pkg/threadpool"
	"github.com/rs/zerolog"
)

// Service is the interface for all plug-in services
type Service interface {
	Start() error
	Stop() error
}

// ServiceRegistry manages the lifecycle of various services in the system.
type ServiceRegistry struct {
	services    map[string]Service // Stores registered services
	serviceKeys []string           // Maintains order of service registration
	fileClient  file.FileOperations
	Logger      zerolog.Logger
}

// NewServiceRegistry initializes a new service registry with dependencies.
func NewServiceRegistry(fileClient file.FileOperations, logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services:   make(map[string]Service),
		fileClient: fileClient,
		Logger:     logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc Service) {
	if _, exists := sr.services[name]; exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// Services returns the registered service names in registration order.
func (sr *ServiceRegistry) Services() []string {
	out := make([]string, len(sr.serviceKeys))
	copy(out, sr.serviceKeys)
	return out
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.Logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			// Stop already started services before returning
			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices initializes and registers enabled services based on configuration.
// Every service shares pool for its connection handling.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, pool *threadpool.ThreadPool) error {
	var connections *services.ConnectionService

	// Ordered service definitions with inline constructors
	servicesInOrder := []struct {
		name        string
		enabled     bool
		constructor func() (Service, error)
	}{
		{
			name:    "connection",
			enabled: config.Server.Enabled,
			constructor: func() (Service, error) {
				connections = services.NewConnectionService(
					config.Server.Address,
					config.Server.StaticDir,
					config.Server.ReadTimeout,
					config.Server.SleepDuration,
					pool,
					sr.fileClient,
					sr.Logger,
				)
				return connections, nil
			},
		},
		{
			name:    "metrics",
			enabled: config.Metrics.Enabled,
			constructor: func() (Service, error) {
				metricsConfig := &models.MetricsConfig{
					MonitorGoroutines: config.Metrics.MonitorGoroutines,
					MonitorProcess:    config.Metrics.MonitorProcess,
					MonitorPool:       config.Metrics.MonitorPool,
					MonitorConns:      config.Metrics.MonitorConns,
				}
				m := services.NewMetricsService(
					pool.ID(),
					config.Metrics.Interval,
					config.Metrics.Timeout,
					metricsConfig,
					sr.Logger,
				)
				m.Register(&metrics_collectors.GoroutineMetricCollector{Logger: sr.Logger})
				m.Register(metrics_collectors.NewProcessMetricCollector(sr.Logger))
				m.Register(&metrics_collectors.PoolMetricCollector{Logger: sr.Logger, Pool: pool})
				if connections != nil {
					m.Register(&metrics_collectors.ConnectionMetricCollector{Logger: sr.Logger, Counter: connections})
				}
				return m, nil
			},
		},
	}

	// Register services in the predefined order
	registeredServices := []string{}
	for _, svc := range servicesInOrder {
		if svc.enabled {
			serviceInstance, err := svc.constructor()
			if err != nil {
				sr.Logger.Error().Err(err).Msgf("Failed to create %s service", svc.name)
				return err
			}
			sr.RegisterService(svc.name, serviceInstance)
			registeredServices = append(registeredServices, svc.name)
		}
	}

	sr.Logger.Info().Msgf("Registered services in order: %v", registeredServices)
	return nil
}
