package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benmeehan/threadpool/internal/service_registry"
	"github.com/benmeehan/threadpool/internal/utils"
	"github.com/benmeehan/threadpool/pkg/file"
	"github.com/benmeehan/threadpool/pkg/threadpool"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Set up structured logging with JSON output
	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Initialize file operations handler
	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(config.Logging.Level)
	if err != nil {
		logger.Fatal().Err(err).Str("level", config.Logging.Level).Msg("Invalid log level")
	}
	logger = logger.Level(level)

	os.Exit(run(config, fileClient, logger))
}

// run owns the pool so that its deferred Close runs before the process exits.
func run(config *utils.Config, fileClient file.FileOperations, logger zerolog.Logger) int {
	pool, err := threadpool.New(config.Pool.Size,
		threadpool.WithLogger(logger),
		threadpool.WithPanicHandler(func(workerID int, recovered any) {
			logger.Warn().Int("worker_id", workerID).Interface("panic", recovered).Msg("Connection handler panicked")
		}),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create thread pool")
		return 1
	}
	defer pool.Close()

	// Create a new service registry to manage services
	serviceRegistry := service_registry.NewServiceRegistry(fileClient, logger)

	// Register all services based on the configuration
	if err := serviceRegistry.RegisterServices(config, pool); err != nil {
		logger.Error().Err(err).Msg("Failed to register services")
		return 1
	}

	// Start all registered services in the registry
	if err := serviceRegistry.StartServices(); err != nil {
		logger.Error().Err(err).Msg("Failed to start services")
		return 1
	}
	logger.Info().Str("pool_id", pool.ID()).Int("workers", pool.Size()).Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	logger.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		logger.Error().Err(err).Msg("Some services failed to stop")
		return 1
	}
	return 0
}
