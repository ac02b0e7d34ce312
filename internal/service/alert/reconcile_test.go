package alert

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/herd-api/internal/model"
)

func candidate(key string) *model.CandidateAlert {
	pref := newPref(model.AlertCodeVaccinationDue, model.AlertCategoryVaccination, nil)
	return newCandidate(pref, key)
}

func TestReconcileCreatesNewAlerts(t *testing.T) {
	repo := &fakeAlertRepo{}
	r := NewReconciler(repo, testLogger())
	farmID := uuid.New()
	gc := testContext(dateUTC(2025, 6, 15), nil, nil)

	summary, err := r.Reconcile(context.Background(), farmID, []*model.CandidateAlert{
		candidate("VACC_DUE:treatment:t1"),
		candidate("VACC_DUE:treatment:t2"),
	}, gc)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Resolved)
	assert.Equal(t, 0, summary.Unchanged)
	assert.Len(t, summary.CreatedIDs, 2)

	require.Len(t, repo.created, 2)
	for _, a := range repo.created {
		assert.Equal(t, farmID, a.FarmID)
		assert.Equal(t, model.AlertStatusPending, a.Status)
		assert.Equal(t, 1, a.Version)
		assert.Equal(t, a.UniqueKey, a.Metadata["unique_key"])
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	existing := existingAlert("VACC_DUE:treatment:t1", model.AlertStatusPending)
	repo := &fakeAlertRepo{live: []*model.Alert{existing}}
	r := NewReconciler(repo, testLogger())
	gc := testContext(dateUTC(2025, 6, 15), nil, []*model.Alert{existing})

	summary, err := r.Reconcile(context.Background(), uuid.New(), []*model.CandidateAlert{
		candidate("VACC_DUE:treatment:t1"),
	}, gc)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 0, summary.Resolved)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.resolved)

	// The matched alert is left untouched, not refreshed
	assert.Equal(t, 1, existing.Version)
	assert.Equal(t, model.AlertStatusPending, existing.Status)
}

func TestReconcileResolvesObsoleteAlerts(t *testing.T) {
	stale := existingAlert("VACC_DUE:treatment:t1", model.AlertStatusPending)
	read := existingAlert("VACC_DUE:treatment:t2", model.AlertStatusRead)
	repo := &fakeAlertRepo{live: []*model.Alert{stale, read}}
	r := NewReconciler(repo, testLogger())
	gc := testContext(dateUTC(2025, 6, 15), nil, []*model.Alert{stale, read})

	summary, err := r.Reconcile(context.Background(), uuid.New(), nil, gc)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Resolved)
	assert.ElementsMatch(t, []uuid.UUID{stale.ID, read.ID}, summary.ResolvedIDs)

	// Resolution stamps the status and bumps the optimistic version
	assert.Equal(t, model.AlertStatusResolved, stale.Status)
	assert.Equal(t, 2, stale.Version)
	assert.NotNil(t, stale.ResolvedAt)
}

func TestReconcileDismissalIsSticky(t *testing.T) {
	dismissed := existingAlert("WEIGHING_DUE:animal:a1", model.AlertStatusDismissed)
	repo := &fakeAlertRepo{live: []*model.Alert{dismissed}}
	r := NewReconciler(repo, testLogger())
	gc := testContext(dateUTC(2025, 6, 15), nil, []*model.Alert{dismissed})

	// Trigger gone: the dismissed alert must not flip to resolved
	summary, err := r.Reconcile(context.Background(), uuid.New(), nil, gc)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Resolved)
	assert.Equal(t, model.AlertStatusDismissed, dismissed.Status)
}

func TestReconcileDismissedSuppressesRecreation(t *testing.T) {
	dismissed := existingAlert("WEIGHING_DUE:animal:a1", model.AlertStatusDismissed)
	repo := &fakeAlertRepo{live: []*model.Alert{dismissed}}
	r := NewReconciler(repo, testLogger())
	gc := testContext(dateUTC(2025, 6, 15), nil, []*model.Alert{dismissed})

	// Trigger still present: the candidate matches the dismissed alert
	// and no duplicate is created
	summary, err := r.Reconcile(context.Background(), uuid.New(), []*model.CandidateAlert{
		candidate("WEIGHING_DUE:animal:a1"),
	}, gc)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Empty(t, repo.created)
}

func TestReconcileMixedDelta(t *testing.T) {
	kept := existingAlert("VACC_DUE:treatment:t1", model.AlertStatusPending)
	stale := existingAlert("VACC_DUE:treatment:t2", model.AlertStatusPending)
	repo := &fakeAlertRepo{live: []*model.Alert{kept, stale}}
	r := NewReconciler(repo, testLogger())
	gc := testContext(dateUTC(2025, 6, 15), nil, []*model.Alert{kept, stale})

	summary, err := r.Reconcile(context.Background(), uuid.New(), []*model.CandidateAlert{
		candidate("VACC_DUE:treatment:t1"),
		candidate("VACC_DUE:treatment:t3"),
	}, gc)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 1, summary.Unchanged)
}

func TestReconcileTransactionFailureAborts(t *testing.T) {
	repo := &fakeAlertRepo{txErr: assert.AnError}
	r := NewReconciler(repo, testLogger())
	gc := testContext(dateUTC(2025, 6, 15), nil, nil)

	summary, err := r.Reconcile(context.Background(), uuid.New(), []*model.CandidateAlert{
		candidate("VACC_DUE:treatment:t1"),
	}, gc)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.Empty(t, repo.created)
}

func TestReconcileDuplicateCandidateKeysCollapse(t *testing.T) {
	repo := &fakeAlertRepo{}
	r := NewReconciler(repo, testLogger())
	gc := testContext(dateUTC(2025, 6, 15), nil, nil)

	summary, err := r.Reconcile(context.Background(), uuid.New(), []*model.CandidateAlert{
		candidate("VACC_DUE:treatment:t1"),
		candidate("VACC_DUE:treatment:t1"),
	}, gc)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
}
