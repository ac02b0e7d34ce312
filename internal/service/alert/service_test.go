package alert

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/herd-api/internal/model"
)

type stubGenerator struct {
	category   model.AlertCategory
	candidates []*model.CandidateAlert
	err        error
	panics     bool
}

func (g *stubGenerator) Category() model.AlertCategory { return g.category }

func (g *stubGenerator) Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error) {
	if g.panics {
		panic("generator blew up")
	}
	return g.candidates, g.err
}

func newTestService(generators []Generator, repo *fakeAlertRepo, opts ...Option) *Service {
	return NewService(&fakePreferenceRepo{}, repo, generators, testLogger(), opts...)
}

func TestGenerateForFarmMergesAllCategories(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestService([]Generator{
		&stubGenerator{
			category:   model.AlertCategoryVaccination,
			candidates: []*model.CandidateAlert{candidate("VACC_DUE:treatment:t1")},
		},
		&stubGenerator{
			category:   model.AlertCategoryNutrition,
			candidates: []*model.CandidateAlert{candidate("WEIGHING_DUE:animal:a1")},
		},
	}, repo)

	summary, err := svc.GenerateForFarm(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Created)
	assert.Empty(t, summary.Warnings)
	assert.Len(t, repo.created, 2)
}

func TestGenerateForFarmIsolatesFailingGenerator(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestService([]Generator{
		&stubGenerator{category: model.AlertCategoryVaccination, err: assert.AnError},
		&stubGenerator{
			category:   model.AlertCategoryNutrition,
			candidates: []*model.CandidateAlert{candidate("WEIGHING_DUE:animal:a1")},
		},
	}, repo)

	summary, err := svc.GenerateForFarm(context.Background(), uuid.New())
	require.NoError(t, err)

	// The healthy category still commits; the broken one is a warning
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, []model.AlertCategory{model.AlertCategoryVaccination}, summary.Warnings)
}

func TestGenerateForFarmRecoversPanickingGenerator(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestService([]Generator{
		&stubGenerator{category: model.AlertCategoryHealth, panics: true},
		&stubGenerator{
			category:   model.AlertCategoryVaccination,
			candidates: []*model.CandidateAlert{candidate("VACC_DUE:treatment:t1")},
		},
	}, repo)

	summary, err := svc.GenerateForFarm(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, []model.AlertCategory{model.AlertCategoryHealth}, summary.Warnings)
}

func TestGenerateForFarmDegradedRunStillReconciles(t *testing.T) {
	// A failed generator's candidates are absent from the merge, so its
	// live alerts resolve as obsolete; the warning tells callers the run
	// was degraded
	existing := existingAlert("VACC_DUE:treatment:t1", model.AlertStatusPending)
	repo := &fakeAlertRepo{live: []*model.Alert{existing}}
	svc := newTestService([]Generator{
		&stubGenerator{category: model.AlertCategoryVaccination, err: assert.AnError},
	}, repo)

	summary, err := svc.GenerateForFarm(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resolved)
	assert.NotEmpty(t, summary.Warnings)
}

func TestGenerateForFarmContextFailureAborts(t *testing.T) {
	repo := &fakeAlertRepo{listErr: assert.AnError}
	svc := newTestService([]Generator{
		&stubGenerator{category: model.AlertCategoryVaccination},
	}, repo)

	summary, err := svc.GenerateForFarm(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Nil(t, summary)
}

func TestGenerateForFarmReportsDuration(t *testing.T) {
	svc := newTestService(nil, &fakeAlertRepo{})

	summary, err := svc.GenerateForFarm(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Greater(t, summary.Duration, time.Duration(0))
}

func TestResolveAlertsOnlyTouchesLiveStatuses(t *testing.T) {
	pending := existingAlert("k1", model.AlertStatusPending)
	dismissed := existingAlert("k2", model.AlertStatusDismissed)
	repo := &fakeAlertRepo{live: []*model.Alert{pending, dismissed}}
	svc := newTestService(nil, repo)

	count, err := svc.ResolveAlerts(context.Background(), uuid.New(), []uuid.UUID{pending.ID, dismissed.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(1), count)
	assert.Equal(t, model.AlertStatusResolved, pending.Status)
	assert.Equal(t, model.AlertStatusDismissed, dismissed.Status)
}

type recordingInvalidator struct {
	farms []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(farmID uuid.UUID) {
	r.farms = append(r.farms, farmID)
}

func TestInvalidateAndRegenerate(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := newTestService(nil, &fakeAlertRepo{}, WithPreferenceInvalidator(inv))
	farmID := uuid.New()

	_, err := svc.InvalidateAndRegenerate(context.Background(), farmID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{farmID}, inv.farms)
}

func TestListAlertsPassesThrough(t *testing.T) {
	a := existingAlert("k1", model.AlertStatusPending)
	repo := &fakeAlertRepo{live: []*model.Alert{a}}
	svc := newTestService(nil, repo)

	alerts, total, err := svc.ListAlerts(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, alerts, 1)
}
