package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/herd-api/internal/config"
	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/internal/repository/cached"
	"github.com/jwalitptl/herd-api/internal/repository/postgres"
	alertService "github.com/jwalitptl/herd-api/internal/service/alert"
	"github.com/jwalitptl/herd-api/pkg/logger"
	redisBroker "github.com/jwalitptl/herd-api/pkg/messaging/redis"
	"github.com/jwalitptl/herd-api/pkg/metrics"
)

// WorkerConfig carries scheduler tunables, read from the environment
type WorkerConfig struct {
	Interval    time.Duration `envconfig:"GENERATION_INTERVAL" default:"15m"`
	Concurrency int           `envconfig:"GENERATION_CONCURRENCY" default:"4"`
	FarmTimeout time.Duration `envconfig:"GENERATION_FARM_TIMEOUT" default:"2m"`
	HealthPort  int           `envconfig:"WORKER_HEALTH_PORT" default:"8081"`
}

// GenerationWorker runs a periodic generation pass across all active farms
type GenerationWorker struct {
	farms       repository.FarmRepository
	alerts      *alertService.Service
	logger      *logger.Logger
	interval    time.Duration
	concurrency int
	farmTimeout time.Duration
}

func NewGenerationWorker(
	farms repository.FarmRepository,
	alerts *alertService.Service,
	log *logger.Logger,
	cfg WorkerConfig,
) *GenerationWorker {
	return &GenerationWorker{
		farms:       farms,
		alerts:      alerts,
		logger:      log.WithComponent("generation.worker"),
		interval:    cfg.Interval,
		concurrency: cfg.Concurrency,
		farmTimeout: cfg.FarmTimeout,
	}
}

func (w *GenerationWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("worker started", "interval", w.interval.String())

	// Run one pass immediately rather than waiting a full interval
	w.runPass(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			return
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

// runPass generates alerts for every active farm, bounded by the
// configured concurrency. A failing farm never blocks the others.
func (w *GenerationWorker) runPass(ctx context.Context) {
	farms, err := w.farms.ListActive(ctx)
	if err != nil {
		w.logger.Error(err, "failed to list active farms")
		return
	}

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	for _, farm := range farms {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(farm *model.Farm) {
			defer wg.Done()
			defer func() { <-sem }()

			farmCtx, cancel := context.WithTimeout(ctx, w.farmTimeout)
			defer cancel()

			summary, err := w.alerts.GenerateForFarm(farmCtx, farm.ID)
			if err != nil {
				w.logger.WithFarm(farm.ID.String()).Error(err, "generation pass failed")
				return
			}

			w.logger.WithFarm(farm.ID.String()).Debug("generation pass done",
				"created", summary.Created,
				"resolved", summary.Resolved,
				"unchanged", summary.Unchanged)
		}(farm)
	}

	wg.Wait()
}

func setupHealthAndMetrics(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Error().Err(err).Msg("health server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var workerCfg WorkerConfig
	if err := envconfig.Process("", &workerCfg); err != nil {
		log.Fatal().Err(err).Msg("failed to read worker environment")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	farmRepo := postgres.NewFarmRepository(db)
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

	m := metrics.NewMetrics("herd", "worker")

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

	worker := NewGenerationWorker(farmRepo, alertSvc, appLogger, workerCfg)

	setupHealthAndMetrics(workerCfg.HealthPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	worker.Start(ctx)
}
