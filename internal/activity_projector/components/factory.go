package components

import (
	"log/slog"

	"github.com/asc-rental-marketplace/internal/activity_projector/service"
	"github.com/asc-rental-marketplace/internal/config"
)

// CreateProjectionService builds the projection service, running it on a worker pool when one can be created.
// The returned shutdown func releases the pool and is safe to call either way.
func CreateProjectionService(
	store service.ActivityStore,
	logger *slog.Logger,
	cfg *config.Config,
) (service.ProjectionService, func()) {
	baseService := service.NewProjectionService(store, logger)

	workerPoolService, err := service.NewWorkerPoolProjectionService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService, func() {}
	}

	logger.Info("Created worker pool projection service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService, workerPoolService.Shutdown
}
