package alert

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
}

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func dateUTC(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newPref(code string, category model.AlertCategory, reminderDays *int) *model.FarmAlertPreference {
	templateID := uuid.New()
	return &model.FarmAlertPreference{
		AlertPreference: model.AlertPreference{
			Base:         model.Base{ID: uuid.New()},
			TemplateID:   templateID,
			ReminderDays: reminderDays,
			IsActive:     true,
		},
		Template: model.AlertTemplate{
			Base:     model.Base{ID: templateID},
			Code:     code,
			Category: category,
			IsActive: true,
		},
	}
}

func testContext(today time.Time, prefs []*model.FarmAlertPreference, existing []*model.Alert) *GenerationContext {
	return newGenerationContext(uuid.New(), today, prefs, existing)
}

func existingAlert(key string, status model.AlertStatus) *model.Alert {
	return &model.Alert{
		Base:      model.Base{ID: uuid.New()},
		UniqueKey: key,
		Status:    status,
		Version:   1,
	}
}

type fakeAnimalRepo struct {
	repository.AnimalRepository
	alive []*model.Animal
	err   error
}

func (f *fakeAnimalRepo) ListAlive(ctx context.Context, farmID uuid.UUID) ([]*model.Animal, error) {
	return f.alive, f.err
}

type fakeTreatmentRepo struct {
	vaccinations []*model.Treatment
	withdrawals  []*model.Treatment
	err          error
}

func (f *fakeTreatmentRepo) ListVaccinations(ctx context.Context, farmID uuid.UUID) ([]*model.Treatment, error) {
	return f.vaccinations, f.err
}

func (f *fakeTreatmentRepo) ListActiveWithdrawals(ctx context.Context, farmID uuid.UUID, asOf time.Time) ([]*model.Treatment, error) {
	return f.withdrawals, f.err
}

type fakeWeightRepo struct {
	byAnimal map[uuid.UUID][]*model.Weight
	err      error
}

func (f *fakeWeightRepo) ListRecentByAnimal(ctx context.Context, animalID uuid.UUID, limit int) ([]*model.Weight, error) {
	if f.err != nil {
		return nil, f.err
	}
	weights := f.byAnimal[animalID]
	if len(weights) > limit {
		weights = weights[:limit]
	}
	return weights, nil
}

type fakeBreedingRepo struct {
	ongoing []*model.Breeding
	err     error
}

func (f *fakeBreedingRepo) ListOngoing(ctx context.Context, farmID uuid.UUID) ([]*model.Breeding, error) {
	return f.ongoing, f.err
}

type fakeMovementRepo struct {
	quarantines []*model.Movement
	err         error
}

func (f *fakeMovementRepo) ListActiveQuarantines(ctx context.Context, farmID uuid.UUID) ([]*model.Movement, error) {
	return f.quarantines, f.err
}

type fakeDocumentRepo struct {
	expiring []*model.Document
	err      error
}

func (f *fakeDocumentRepo) ListExpiringBetween(ctx context.Context, farmID uuid.UUID, from, to time.Time) ([]*model.Document, error) {
	return f.expiring, f.err
}

type fakePreferenceRepo struct {
	prefs []*model.FarmAlertPreference
	err   error
}

func (f *fakePreferenceRepo) ListActiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.FarmAlertPreference, error) {
	return f.prefs, f.err
}

// fakeAlertRepo is an in-memory alert store mirroring the transactional
// semantics of the Postgres implementation
type fakeAlertRepo struct {
	mu       sync.Mutex
	live     []*model.Alert
	created  []*model.Alert
	resolved []uuid.UUID
	listErr  error
	txErr    error
}

func (f *fakeAlertRepo) ListLiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.Alert, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Alert, 0, len(f.live))
	for _, a := range f.live {
		if a.IsLive() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) List(ctx context.Context, farmID uuid.UUID, filters *model.AlertFilters) ([]*model.Alert, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live, len(f.live), nil
}

func (f *fakeAlertRepo) CreateBatchTx(ctx context.Context, tx *sqlx.Tx, alerts []*model.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, a := range alerts {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.Status = model.AlertStatusPending
		a.Version = 1
		a.TriggeredAt = now
	}
	f.created = append(f.created, alerts...)
	f.live = append(f.live, alerts...)
	return nil
}

func (f *fakeAlertRepo) ResolveBatchTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, resolvedAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, id := range ids {
		for _, a := range f.live {
			if a.ID == id && (a.Status == model.AlertStatusPending || a.Status == model.AlertStatusRead) {
				a.Status = model.AlertStatusResolved
				a.ResolvedAt = timePtr(resolvedAt)
				a.Version++
				count++
			}
		}
	}
	f.resolved = append(f.resolved, ids...)
	return count, nil
}

func (f *fakeAlertRepo) ForceResolve(ctx context.Context, farmID uuid.UUID, ids []uuid.UUID, resolvedAt time.Time) (int64, error) {
	return f.ResolveBatchTx(ctx, nil, ids, resolvedAt)
}

func (f *fakeAlertRepo) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return fn(nil)
}
