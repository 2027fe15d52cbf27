package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/makerworks/safetytraining/backend/internal/adapters/cache"
	"github.com/makerworks/safetytraining/backend/internal/adapters/database"
	"github.com/makerworks/safetytraining/backend/internal/adapters/providers/content"
	"github.com/makerworks/safetytraining/backend/internal/api/handlers"
	"github.com/makerworks/safetytraining/backend/internal/api/middleware"
	"github.com/makerworks/safetytraining/backend/internal/api/routes"
	"github.com/makerworks/safetytraining/backend/internal/application/services"
	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/generation"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/postgres"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/redis"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/observability"
	"github.com/makerworks/safetytraining/backend/pkg/config"
)

func main() {
	// Load .env in development; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Database
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap schema")
	}
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional; reference-data reads fall back to the database
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without response caching")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Repositories
	var procedureRepo repositories.ProcedureRepository = database.NewProcedureAdapter(pgClient)
	var equipmentRepo repositories.EquipmentRepository = database.NewEquipmentAdapter(pgClient)
	if cacheProvider != nil {
		procedureRepo = database.NewCachedProcedureAdapter(procedureRepo, cacheProvider)
		equipmentRepo = database.NewCachedEquipmentAdapter(equipmentRepo, cacheProvider)
	}
	quizRepo := database.NewQuizAdapter(pgClient)
	attemptRepo := database.NewAssessmentAttemptAdapter(pgClient)

	// Extracted manual text lives in process memory for the process lifetime
	contentCache := cache.NewMemoryAdapter()
	extractor := content.NewExtractor(&cfg.Documents, contentCache)

	generationClient, err := generation.NewClient(&cfg.Generation)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize generation client")
	}

	// Services
	resolver := services.NewContentResolverService(extractor, equipmentRepo, procedureRepo)
	trainingService := services.NewTrainingService(resolver, generationClient, quizRepo)
	assessmentService := services.NewAssessmentService(attemptRepo)

	// Handlers
	trainingHandler := handlers.NewTrainingHandler(trainingService)
	procedureHandler := handlers.NewProcedureHandler(procedureRepo)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentRepo)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		trainingHandler,
		procedureHandler,
		equipmentHandler,
		assessmentHandler,
		assessmentService,
		cfg.Auth.JWTSecret,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
