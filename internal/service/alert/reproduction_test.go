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

func breeding(status model.BreedingStatus, bredAt time.Time, expectedBirth *time.Time) *model.Breeding {
	return &model.Breeding{
		Base:              model.Base{ID: uuid.New()},
		MotherID:          uuid.New(),
		Status:            status,
		BreedingDate:      bredAt,
		ExpectedBirthDate: expectedBirth,
	}
}

func reproductionPrefs() []*model.FarmAlertPreference {
	return []*model.FarmAlertPreference{
		newPref(model.AlertCodeCalvingSoon, model.AlertCategoryReproduction, nil),
		newPref(model.AlertCodePregnancyCheck, model.AlertCategoryReproduction, nil),
	}
}

func TestCalvingSoonWithinWindow(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, reproductionPrefs(), nil)

	b := breeding(model.BreedingStatusConfirmed, today.AddDate(0, 0, -270), timePtr(today.AddDate(0, 0, 7)))
	g := NewReproductionGenerator(&fakeBreedingRepo{ongoing: []*model.Breeding{b}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, model.AlertCodeCalvingSoon, cands[0].TemplateCode)
	assert.Equal(t, 7, cands[0].Metadata["days_until_birth"])
	assert.Equal(t, "CALVING_SOON:breeding:"+b.ID.String(), cands[0].UniqueKey)
	assert.Equal(t, b.MotherID, *cands[0].AnimalID)
}

func TestCalvingOutsideWindow(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, reproductionPrefs(), nil)

	b := breeding(model.BreedingStatusConfirmed, today.AddDate(0, 0, -260), timePtr(today.AddDate(0, 0, 8)))
	g := NewReproductionGenerator(&fakeBreedingRepo{ongoing: []*model.Breeding{b}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestCalvingDatePassedProducesNothing(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, reproductionPrefs(), nil)

	b := breeding(model.BreedingStatusConfirmed, today.AddDate(0, 0, -290), timePtr(today.AddDate(0, 0, -1)))
	g := NewReproductionGenerator(&fakeBreedingRepo{ongoing: []*model.Breeding{b}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestPregnancyCheckApproaching(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, reproductionPrefs(), nil)

	// Bred 40 days ago, check falls due at day 45
	b := breeding(model.BreedingStatusInProgress, today.AddDate(0, 0, -40), nil)
	g := NewReproductionGenerator(&fakeBreedingRepo{ongoing: []*model.Breeding{b}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, model.AlertCodePregnancyCheck, cands[0].TemplateCode)
	assert.Equal(t, 5, cands[0].Metadata["days_until_check"])
}

func TestPregnancyCheckSkipsConfirmedBreeding(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, reproductionPrefs(), nil)

	b := breeding(model.BreedingStatusConfirmed, today.AddDate(0, 0, -40), nil)
	g := NewReproductionGenerator(&fakeBreedingRepo{ongoing: []*model.Breeding{b}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestPregnancyCheckWindowClosed(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, reproductionPrefs(), nil)

	// Check date lies more than the reminder window in the past
	b := breeding(model.BreedingStatusInProgress, today.AddDate(0, 0, -60), nil)
	g := NewReproductionGenerator(&fakeBreedingRepo{ongoing: []*model.Breeding{b}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestBreedingYieldsBothCalvingAndCheck(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, reproductionPrefs(), nil)

	// Artificial case with both windows open at once; both codes fire
	// with distinct keys
	b := breeding(model.BreedingStatusInProgress, today.AddDate(0, 0, -43), timePtr(today.AddDate(0, 0, 3)))
	g := NewReproductionGenerator(&fakeBreedingRepo{ongoing: []*model.Breeding{b}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.NotEqual(t, cands[0].UniqueKey, cands[1].UniqueKey)
}
