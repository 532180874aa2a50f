package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carewise/triage-api/internal/ai/gemini"
	"github.com/carewise/triage-api/internal/config"
	"github.com/carewise/triage-api/internal/email"
	"github.com/carewise/triage-api/internal/handler"
	authHandler "github.com/carewise/triage-api/internal/handler/auth"
	caseHandler "github.com/carewise/triage-api/internal/handler/casefile"
	patientHandler "github.com/carewise/triage-api/internal/handler/patient"
	triageHandler "github.com/carewise/triage-api/internal/handler/triage"
	"github.com/carewise/triage-api/internal/middleware"
	"github.com/carewise/triage-api/internal/repository/postgres"
	"github.com/carewise/triage-api/internal/router"
	authService "github.com/carewise/triage-api/internal/service/auth"
	caseService "github.com/carewise/triage-api/internal/service/casefile"
	patientService "github.com/carewise/triage-api/internal/service/patient"
	triageService "github.com/carewise/triage-api/internal/service/triage"
	"github.com/carewise/triage-api/pkg/logger"
	"github.com/carewise/triage-api/pkg/messaging/redis"
	"github.com/carewise/triage-api/pkg/metrics"
	"github.com/carewise/triage-api/pkg/worker"
)

func main() {
	// Load configuration. This fails fast when GEMINI_API_KEY is not
	// set; there is no point starting a triage service without the
	// upstream credential.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("triage_api")

	// Initialize repositories
	patientRepo := postgres.NewPatientRepository(db)
	caseRepo := postgres.NewCaseRepository(db)
	userRepo := postgres.NewUserRepository(db)
	adminCodeRepo := postgres.NewAdminCodeRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Initialize upstream AI client
	aiClient, err := gemini.NewClient(gemini.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gemini client")
	}

	// Initialize services
	jwtSvc := authService.NewJWTService(cfg.JWT)
	emailSvc := email.NewService(cfg.SMTP)
	authSvc := authService.NewService(userRepo, adminCodeRepo, jwtSvc, emailSvc)
	patientSvc := patientService.NewService(patientRepo)
	caseSvc := caseService.NewService(db, caseRepo, patientRepo, outboxRepo)
	triageSvc := triageService.NewService(aiClient, cfg.AI.Timeout, m)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Initialize handlers
	h := handler.NewHandler()
	triageH := triageHandler.NewHandler(triageSvc)
	authH := authHandler.NewHandler(authSvc)
	patientH := patientHandler.NewHandler(patientSvc)
	caseH := caseHandler.NewHandler(caseSvc)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		triageH,
		authH,
		patientH,
		caseH,
		h,
		router.RouterConfig{
			RateLimit:     100,
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "triage_api_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Initialize Redis message broker and outbox relay
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, appLogger, m)

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	go outboxProcessor.Start(processorCtx)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting triage API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
