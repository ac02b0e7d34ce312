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

	"github.com/jwalitptl/herd-api/internal/config"
	"github.com/jwalitptl/herd-api/internal/handler"
	alertHandler "github.com/jwalitptl/herd-api/internal/handler/alert"
	animalHandler "github.com/jwalitptl/herd-api/internal/handler/animal"
	"github.com/jwalitptl/herd-api/internal/middleware"
	"github.com/jwalitptl/herd-api/internal/repository/cached"
	"github.com/jwalitptl/herd-api/internal/repository/postgres"
	"github.com/jwalitptl/herd-api/internal/router"
	alertService "github.com/jwalitptl/herd-api/internal/service/alert"
	animalService "github.com/jwalitptl/herd-api/internal/service/animal"
	"github.com/jwalitptl/herd-api/pkg/auth"
	"github.com/jwalitptl/herd-api/pkg/logger"
	redisBroker "github.com/jwalitptl/herd-api/pkg/messaging/redis"
	"github.com/jwalitptl/herd-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	animalRepo := postgres.NewAnimalRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	weightRepo := postgres.NewWeightRepository(db)
	breedingRepo := postgres.NewBreedingRepository(db)
	movementRepo := postgres.NewMovementRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	prefRepo := cached.NewPreferenceRepository(
		postgres.NewPreferenceRepository(db),
		cfg.Generation.PreferenceCacheTTL,
	)

	// Generation metrics
	m := metrics.NewMetrics("herd", "alerts")

	// Alert service, with event publishing if Redis is configured
	generators := alertService.NewGenerators(
		animalRepo, treatmentRepo, weightRepo,
		breedingRepo, movementRepo, documentRepo,
		appLogger,
	)

	opts := []alertService.Option{
		alertService.WithMetrics(m),
		alertService.WithPreferenceInvalidator(prefRepo),
	}
	if cfg.Redis.URL != "" {
		broker, err := redisBroker.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
		opts = append(opts, alertService.WithBroker(broker, cfg.Generation.EventChannel))
	}

	alertSvc := alertService.NewService(prefRepo, alertRepo, generators, appLogger, opts...)
	animalSvc := animalService.NewService(animalRepo)

	// HTTP surface
	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	h := handler.NewHandler(db)
	alertH := alertHandler.NewHandler(alertSvc)
	animalH := animalHandler.NewHandler(animalSvc)

	r := router.NewRouter(authMiddleware, alertH, animalH, h, router.Config{
		RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
		CORSConfig:     middleware.DefaultCORSConfig(),
		MetricsPrefix:  "herd_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
