package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/database"
	"github.com/insightflow/insightflow-backend/internal/handler"
	"github.com/insightflow/insightflow-backend/internal/logger"
	"github.com/insightflow/insightflow-backend/internal/repository"
	"github.com/insightflow/insightflow-backend/internal/router"
	"github.com/insightflow/insightflow-backend/internal/service"
	"github.com/insightflow/insightflow-backend/internal/validator"
	"github.com/insightflow/insightflow-backend/internal/worker"
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
		Msg("Starting InsightFlow Backend")

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

	// ─── Initialize Repositories ───────────────────────────────────────
	profileRepo := repository.NewProfileRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	questionnaireRepo := repository.NewQuestionnaireRepository(pool)
	responseRepo := repository.NewResponseRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, profileRepo)
	profileService := service.NewProfileService(profileRepo)
	projectService := service.NewProjectService(projectRepo, profileRepo)
	questionnaireService := service.NewQuestionnaireService(questionnaireRepo, projectRepo, rdb, log)
	responseService := service.NewResponseService(questionnaireRepo, responseRepo, questionnaireService, rdb, log)
	statsService := service.NewStatsService(profileRepo, projectRepo, questionnaireRepo, responseRepo, questionnaireService)
	aiService := service.NewAIService(cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Project:       handler.NewProjectHandler(projectService),
		Questionnaire: handler.NewQuestionnaireHandler(questionnaireService, responseService),
		Respond:       handler.NewRespondHandler(responseService),
		Stats:         handler.NewStatsHandler(statsService),
		AI:            handler.NewAIHandler(aiService, log),
		Admin:         handler.NewAdminHandler(profileService),
		Monitor:       handler.NewMonitorHandler(rdb, questionnaireService, responseService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	webhookWorker := worker.NewWebhookWorker(questionnaireRepo, responseRepo, rdb, cfg, log)
	go webhookWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published surveys into Redis BEFORE accepting traffic so
	// respondent requests never race a cold cache.
	if err := questionnaireService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

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

	// 2. Stop the webhook worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
