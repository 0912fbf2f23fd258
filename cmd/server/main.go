package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/database"
	"github.com/riedtal/admission-backend/internal/handler"
	"github.com/riedtal/admission-backend/internal/logger"
	"github.com/riedtal/admission-backend/internal/notifier"
	"github.com/riedtal/admission-backend/internal/repository"
	"github.com/riedtal/admission-backend/internal/router"
	"github.com/riedtal/admission-backend/internal/scheduler"
	"github.com/riedtal/admission-backend/internal/service"
	"github.com/riedtal/admission-backend/internal/validator"
	"github.com/riedtal/admission-backend/internal/worker"
	"github.com/riedtal/admission-backend/internal/workflow"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Admission Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Asynq Client ───────────────────────────────────────
	asynqClient, err := database.NewAsynqClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize asynq client")
	}
	defer asynqClient.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	applicationRepo := repository.NewApplicationRepository(pool)
	programRepo := repository.NewStudyProgramRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	workflowRepo := repository.NewWorkflowRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	deadlineService := service.NewDeadlineService(cfg.Deadline, log)
	rankingService := service.NewRankingService(cfg.Quota)
	examService := service.NewExamService()
	allocator := service.NewStudentNumberService(studentRepo)

	sched := scheduler.NewAsynqScheduler(asynqClient, log)
	sender := notifier.FromConfig(cfg.SMTP, notifier.NewLogSender(log))

	// ─── Initialize Workflow Engine ────────────────────────────────────
	engine := workflow.NewEngine(
		cfg, log,
		applicationRepo, programRepo, studentRepo, workflowRepo,
		deadlineService, rankingService, examService, allocator,
		sched, sender,
	)

	// ─── Start Asynq Worker ────────────────────────────────────────────
	asynqServer, err := worker.NewServer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize asynq server")
	}
	mux := asynq.NewServeMux()
	worker.NewPaymentWorker(engine, log).Register(mux)
	if err := asynqServer.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("Failed to start asynq server")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Application: handler.NewApplicationHandler(engine),
		Task:        handler.NewTaskHandler(engine, workflowRepo),
		Exam:        handler.NewExamHandler(engine),
		Payment:     handler.NewPaymentHandler(engine),
		Program:     handler.NewProgramHandler(programRepo, rdb, log),
		System:      handler.NewSystemHandler(pool, rdb),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Drain in-flight timer tasks. Pending tasks stay in Redis and are
	//    picked up on the next start.
	asynqServer.Shutdown()

	log.Info().Msg("Shutdown complete")
}
