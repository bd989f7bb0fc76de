package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/asc-rental-marketplace/internal/activity_projector/components"
	"github.com/asc-rental-marketplace/internal/activity_projector/consumer"
	"github.com/asc-rental-marketplace/internal/activity_projector/outbox_poller"
	"github.com/asc-rental-marketplace/internal/config"
	"github.com/asc-rental-marketplace/internal/data/mongo"
	"github.com/asc-rental-marketplace/internal/data/postgres"
	"github.com/asc-rental-marketplace/internal/logger"
	"github.com/asc-rental-marketplace/internal/platform/messaging/consumers"
	"github.com/asc-rental-marketplace/internal/platform/messaging/producers"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

const shutdownTimeout = 30 * time.Second

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("activity_projector")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Activity Projector",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())
	if err := activityRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to ensure activity indexes", "error", err)
		os.Exit(1)
	}

	eventProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize events Kafka producer", "error", err)
		os.Exit(1)
	}

	// Without a DLQ topic the producer rejects dead letters and the offset stays uncommitted
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	projectionService, shutdownPool := components.CreateProjectionService(activityRepo, log, cfg)

	activityEventHandler := consumer.NewActivityEventHandler(log, projectionService, dlqProducer)

	relay := outbox_poller.NewEventRelay(outboxRepo, eventProducer, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, relay, log)

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.EventsTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, activityEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Outbox Poller",
			"interval", cfg.Outbox.PollingInterval.String(),
			"batch_size", cfg.Outbox.BatchSize,
		)
		poller.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	shutdownPool()

	if err = dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing events Kafka producer", "error", err)
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Activity Projector shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Activity Projector shutdown completed with errors")
	} else {
		log.Info("Activity Projector shutdown completed successfully")
	}
}
