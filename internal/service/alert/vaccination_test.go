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

func vaccination(dueDate *time.Time) *model.Treatment {
	return &model.Treatment{
		Base:        model.Base{ID: uuid.New()},
		AnimalID:    uuid.New(),
		Kind:        model.TreatmentKindVaccination,
		Product:     "BVD booster",
		NextDueDate: dueDate,
	}
}

func TestVaccinationDueOnDueDate(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, []*model.FarmAlertPreference{
		newPref(model.AlertCodeVaccinationDue, model.AlertCategoryVaccination, nil),
		newPref(model.AlertCodeVaccinationOverdue, model.AlertCategoryVaccination, nil),
	}, nil)

	treat := vaccination(timePtr(today))
	g := NewVaccinationGenerator(&fakeTreatmentRepo{vaccinations: []*model.Treatment{treat}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	// On the due date itself the vaccination is due, not overdue
	assert.Equal(t, model.AlertCodeVaccinationDue, cands[0].TemplateCode)
	assert.Equal(t, 0, cands[0].Metadata["days_until_due"])
	assert.Equal(t, "VACC_DUE:treatment:"+treat.ID.String(), cands[0].UniqueKey)
}

func TestVaccinationOverdueDayAfter(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, []*model.FarmAlertPreference{
		newPref(model.AlertCodeVaccinationDue, model.AlertCategoryVaccination, nil),
		newPref(model.AlertCodeVaccinationOverdue, model.AlertCategoryVaccination, nil),
	}, nil)

	treat := vaccination(timePtr(dateUTC(2025, 6, 14)))
	g := NewVaccinationGenerator(&fakeTreatmentRepo{vaccinations: []*model.Treatment{treat}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, model.AlertCodeVaccinationOverdue, cands[0].TemplateCode)
	assert.Equal(t, 1, cands[0].Metadata["days_overdue"])
}

func TestVaccinationReminderWindow(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, []*model.FarmAlertPreference{
		newPref(model.AlertCodeVaccinationDue, model.AlertCategoryVaccination, nil),
	}, nil)

	inside := vaccination(timePtr(today.AddDate(0, 0, 7)))
	outside := vaccination(timePtr(today.AddDate(0, 0, 8)))
	g := NewVaccinationGenerator(&fakeTreatmentRepo{
		vaccinations: []*model.Treatment{inside, outside},
	}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "VACC_DUE:treatment:"+inside.ID.String(), cands[0].UniqueKey)
}

func TestVaccinationReminderOverride(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, []*model.FarmAlertPreference{
		newPref(model.AlertCodeVaccinationDue, model.AlertCategoryVaccination, intPtr(14)),
	}, nil)

	treat := vaccination(timePtr(today.AddDate(0, 0, 10)))
	g := NewVaccinationGenerator(&fakeTreatmentRepo{vaccinations: []*model.Treatment{treat}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Len(t, cands, 1)
}

func TestVaccinationSkipsWithoutDueDate(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, []*model.FarmAlertPreference{
		newPref(model.AlertCodeVaccinationDue, model.AlertCategoryVaccination, nil),
	}, nil)

	g := NewVaccinationGenerator(&fakeTreatmentRepo{vaccinations: []*model.Treatment{vaccination(nil)}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestVaccinationNoPreferenceSkipsQuery(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, nil, nil)

	// Repo would error if queried; the generator must bail out first
	g := NewVaccinationGenerator(&fakeTreatmentRepo{err: assert.AnError}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestVaccinationOverdueWithoutOverduePreference(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, []*model.FarmAlertPreference{
		newPref(model.AlertCodeVaccinationDue, model.AlertCategoryVaccination, nil),
	}, nil)

	treat := vaccination(timePtr(dateUTC(2025, 6, 1)))
	g := NewVaccinationGenerator(&fakeTreatmentRepo{vaccinations: []*model.Treatment{treat}}, testLogger())

	cands, err := g.Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}
