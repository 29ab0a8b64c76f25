package main

import (
	"context"
	"os"

	"github.com/huangang/codebook/backend/internal/config"
	"github.com/huangang/codebook/backend/internal/handlers"
	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository/gormrepo"
	"github.com/huangang/codebook/backend/internal/services"
	"github.com/huangang/codebook/backend/internal/utils"
	"github.com/huangang/codebook/backend/pkg/logger"
)

// appServices holds the initialized handlers and the background components
// that need stopping on shutdown.
type appServices struct {
	taskQueue    services.TaskQueue
	worker       *services.Worker
	logScheduler *services.LogCleanupScheduler

	authHandler         *handlers.AuthHandler
	skillHandler        *handlers.SkillHandler
	profileHandler      *handlers.ProfileHandler
	projectHandler      *handlers.ProjectHandler
	reviewHandler       *handlers.ReviewHandler
	notificationHandler *handlers.NotificationHandler
	sseHandler          *handlers.SSEHandler
	systemLogHandler    *handlers.SystemLogHandler
	healthHandler       *handlers.HealthHandler
	metricsHandler      *handlers.MetricsHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database, cfg.Server.Mode); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	db := models.GetDB()
	store := gormrepo.NewStore(db)

	services.InitSystemLogger(db)
	logScheduler := services.NewLogCleanupScheduler(db, cfg.Log.RetentionDays)
	if err := logScheduler.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start log cleanup scheduler")
	}

	notificationService := services.NewNotificationService(store)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.ProcessReviewTask)
	}

	worker := services.NewWorker(&cfg.Redis)
	if worker != nil {
		worker.SetProcessor(notificationService.ProcessReviewTask)
		if err := worker.Start(); err != nil {
			logger.Error().Err(err).Msg("Failed to start worker")
		}
	}

	hub := services.GetSSEHub()
	tags := services.NewTagReconciler(services.NewSkillRegistry())
	ledger := services.NewReviewLedger(store, services.NewReviewNotifier(taskQueue, hub))
	projectService := services.NewProjectService(store, tags, ledger)
	authService := services.NewAuthService(store, &cfg.JWT)

	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		if err := authService.CreateAdminIfNotExists(context.Background(), password); err != nil {
			logger.Warn().Err(err).Msg("Failed to create admin user")
		}
	}

	return &appServices{
		taskQueue:    taskQueue,
		worker:       worker,
		logScheduler: logScheduler,

		authHandler:         handlers.NewAuthHandler(authService),
		skillHandler:        handlers.NewSkillHandler(services.NewSkillService(store)),
		profileHandler:      handlers.NewProfileHandler(services.NewProfileService(store, tags)),
		projectHandler:      handlers.NewProjectHandler(projectService),
		reviewHandler:       handlers.NewReviewHandler(ledger, projectService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		sseHandler:          handlers.NewSSEHandler(hub),
		systemLogHandler:    handlers.NewSystemLogHandler(services.NewSystemLogService(db)),
		healthHandler:       handlers.NewHealthHandler(db, taskQueue, hub),
		metricsHandler:      handlers.NewMetricsHandler(db, taskQueue, hub),
	}
}

// shutdown stops background work; pending sync tasks are drained by Close.
func (s *appServices) shutdown() {
	s.logScheduler.Stop()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close task queue")
		}
	}
}
