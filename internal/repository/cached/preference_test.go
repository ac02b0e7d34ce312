package cached

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/herd-api/internal/model"
)

type countingPreferenceRepo struct {
	calls int
	prefs []*model.FarmAlertPreference
	err   error
}

func (r *countingPreferenceRepo) ListActiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.FarmAlertPreference, error) {
	r.calls++
	return r.prefs, r.err
}

func TestCachedPreferencesHitInnerOnce(t *testing.T) {
	inner := &countingPreferenceRepo{
		prefs: []*model.FarmAlertPreference{{}},
	}
	repo := NewPreferenceRepository(inner, time.Minute)
	farmID := uuid.New()

	for i := 0; i < 3; i++ {
		prefs, err := repo.ListActiveForFarm(context.Background(), farmID)
		require.NoError(t, err)
		assert.Len(t, prefs, 1)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedPreferencesPerFarm(t *testing.T) {
	inner := &countingPreferenceRepo{}
	repo := NewPreferenceRepository(inner, time.Minute)

	_, err := repo.ListActiveForFarm(context.Background(), uuid.New())
	require.NoError(t, err)
	_, err = repo.ListActiveForFarm(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	inner := &countingPreferenceRepo{}
	repo := NewPreferenceRepository(inner, time.Minute)
	farmID := uuid.New()

	_, err := repo.ListActiveForFarm(context.Background(), farmID)
	require.NoError(t, err)

	repo.Invalidate(farmID)

	_, err = repo.ListActiveForFarm(context.Background(), farmID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestErrorsAreNotCached(t *testing.T) {
	inner := &countingPreferenceRepo{err: assert.AnError}
	repo := NewPreferenceRepository(inner, time.Minute)
	farmID := uuid.New()

	_, err := repo.ListActiveForFarm(context.Background(), farmID)
	require.Error(t, err)

	inner.err = nil
	_, err = repo.ListActiveForFarm(context.Background(), farmID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
