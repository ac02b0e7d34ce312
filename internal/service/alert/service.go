package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
	"github.com/jwalitptl/herd-api/pkg/messaging"
	"github.com/jwalitptl/herd-api/pkg/metrics"
)

// PreferenceInvalidator is implemented by the cached preference read
// model; a plain repository needs no invalidation
type PreferenceInvalidator interface {
	Invalidate(farmID uuid.UUID)
}

type Service struct {
	prefs       repository.PreferenceRepository
	alerts      repository.AlertRepository
	generators  []Generator
	reconciler  *Reconciler
	broker      messaging.Broker
	channel     string
	metrics     *metrics.Metrics
	logger      *logger.Logger
	invalidator PreferenceInvalidator
}

type Option func(*Service)

// WithBroker publishes a generation summary event after each successful run
func WithBroker(broker messaging.Broker, channel string) Option {
	return func(s *Service) {
		s.broker = broker
		s.channel = channel
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPreferenceInvalidator(inv PreferenceInvalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

func NewService(
	prefs repository.PreferenceRepository,
	alerts repository.AlertRepository,
	generators []Generator,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		prefs:      prefs,
		alerts:     alerts,
		generators: generators,
		reconciler: NewReconciler(alerts, log),
		logger:     log.WithComponent("alert.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateForFarm runs one full generation and reconciliation pass. The
// run is idempotent: re-running against unchanged data creates and
// resolves nothing.
//
// Generators fan out concurrently over disjoint read-only inputs and the
// merge waits for all of them, since obsolescence detection needs the
// complete candidate set. A failing generator degrades the run to the
// other categories; a failing reconciliation aborts the whole run with
// no partial state.
func (s *Service) GenerateForFarm(ctx context.Context, farmID uuid.UUID) (*model.GenerationSummary, error) {
	start := time.Now()

	gc, err := s.buildContext(ctx, farmID)
	if err != nil {
		s.countRun("context_failed")
		return nil, fmt.Errorf("failed to build generation context: %w", err)
	}

	candidates, warnings := s.runGenerators(ctx, gc)

	summary, err := s.reconciler.Reconcile(ctx, farmID, candidates, gc)
	if err != nil {
		s.countRun("reconcile_failed")
		return nil, err
	}
	summary.Warnings = warnings
	summary.Duration = time.Since(start)

	s.observeRun(summary)
	s.publishSummary(ctx, summary)

	s.logger.WithFarm(farmID.String()).Info("generation run complete",
		"created", summary.Created,
		"resolved", summary.Resolved,
		"unchanged", summary.Unchanged,
		"warnings", len(summary.Warnings))

	return summary, nil
}

// ListAlerts returns a farm's alerts with optional status/category filters
func (s *Service) ListAlerts(ctx context.Context, farmID uuid.UUID, filters *model.AlertFilters) ([]*model.Alert, int, error) {
	alerts, total, err := s.alerts.List(ctx, farmID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, total, nil
}

// ResolveAlerts force-resolves specific alerts regardless of generator
// output, only touching alerts currently pending or read
func (s *Service) ResolveAlerts(ctx context.Context, farmID uuid.UUID, alertIDs []uuid.UUID) (int64, error) {
	count, err := s.alerts.ForceResolve(ctx, farmID, alertIDs, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to resolve alerts: %w", err)
	}
	s.logger.WithFarm(farmID.String()).Info("alerts force-resolved", "count", count)
	return count, nil
}

// InvalidateAndRegenerate drops the cached preference read model for the
// farm and runs a fresh generation pass
func (s *Service) InvalidateAndRegenerate(ctx context.Context, farmID uuid.UUID) (*model.GenerationSummary, error) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(farmID)
	}
	return s.GenerateForFarm(ctx, farmID)
}

// runGenerators fans out all category generators and collects their
// candidates. Failures (errors and panics alike) are isolated per
// category and surfaced as warnings.
func (s *Service) runGenerators(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, []model.AlertCategory) {
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []*model.CandidateAlert
		warnings   []model.AlertCategory
	)

	for _, g := range s.generators {
		wg.Add(1)
		go func(g Generator) {
			defer wg.Done()

			category := g.Category()
			defer func() {
				if p := recover(); p != nil {
					s.logger.WithFarm(gc.FarmID.String()).Error(fmt.Errorf("panic: %v", p),
						"generator panicked", "category", category)
					s.countGeneratorFailure(category)
					mu.Lock()
					warnings = append(warnings, category)
					mu.Unlock()
				}
			}()

			cands, err := g.Generate(ctx, gc)
			if err != nil {
				s.logger.WithFarm(gc.FarmID.String()).Error(err,
					"generator failed", "category", category)
				s.countGeneratorFailure(category)
				mu.Lock()
				warnings = append(warnings, category)
				mu.Unlock()
				return
			}

			s.countCandidates(category, len(cands))
			mu.Lock()
			candidates = append(candidates, cands...)
			mu.Unlock()
		}(g)
	}
	wg.Wait()

	return candidates, warnings
}

func (s *Service) publishSummary(ctx context.Context, summary *model.GenerationSummary) {
	if s.broker == nil {
		return
	}
	event := messaging.Message{
		Type:    "alerts.generated",
		Payload: summary,
	}
	if err := s.broker.Publish(ctx, s.channel, event); err != nil {
		// Event delivery is best effort; the run already committed
		s.logger.WithFarm(summary.FarmID.String()).Warn("failed to publish generation event", "error", err.Error())
	}
}

func (s *Service) countRun(status string) {
	if s.metrics != nil {
		s.metrics.GenerationRuns.WithLabelValues(status).Inc()
	}
}

func (s *Service) countGeneratorFailure(category model.AlertCategory) {
	if s.metrics != nil {
		s.metrics.GeneratorFailures.WithLabelValues(string(category)).Inc()
	}
}

func (s *Service) countCandidates(category model.AlertCategory, n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.CandidatesProduced.WithLabelValues(string(category)).Add(float64(n))
	}
}

func (s *Service) observeRun(summary *model.GenerationSummary) {
	if s.metrics == nil {
		return
	}
	s.metrics.GenerationRuns.WithLabelValues("success").Inc()
	s.metrics.GenerationDuration.Observe(summary.Duration.Seconds())
	s.metrics.AlertsCreated.Add(float64(summary.Created))
	s.metrics.AlertsResolved.Add(float64(summary.Resolved))
	s.metrics.AlertsUnchanged.Add(float64(summary.Unchanged))
}
