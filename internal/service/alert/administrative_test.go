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

func document(name string, expiry *time.Time) *model.Document {
	return &model.Document{
		Base:       model.Base{ID: uuid.New()},
		Name:       name,
		Type:       "passport",
		ExpiryDate: expiry,
	}
}

func administrativePrefs() []*model.FarmAlertPreference {
	return []*model.FarmAlertPreference{
		newPref(model.AlertCodeDocumentExpiring, model.AlertCategoryAdministrative, nil),
		newPref(model.AlertCodeIdentifierMissing, model.AlertCategoryAdministrative, nil),
	}
}

func administrativeGenerator(animals []*model.Animal, docs []*model.Document) *AdministrativeGenerator {
	return NewAdministrativeGenerator(
		&fakeAnimalRepo{alive: animals},
		&fakeDocumentRepo{expiring: docs},
		testLogger(),
	)
}

func TestDocumentExpiringWithinWindow(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, administrativePrefs(), nil)

	doc := document("herd register", timePtr(today.AddDate(0, 0, 10)))
	cands, err := administrativeGenerator(nil, []*model.Document{doc}).Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, model.AlertCodeDocumentExpiring, cands[0].TemplateCode)
	assert.Equal(t, 10, cands[0].Metadata["days_until_expiry"])
	assert.Equal(t, "herd register", cands[0].Metadata["document_name"])
	assert.Equal(t, "DOC_EXPIRING:document:"+doc.ID.String(), cands[0].UniqueKey)
}

func TestIdentifierMissingAfterGracePeriod(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, administrativePrefs(), nil)

	animal := &model.Animal{
		Base:      model.Base{ID: uuid.New()},
		BirthDate: timePtr(today.AddDate(0, 0, -31)),
		Status:    model.AnimalStatusAlive,
	}

	cands, err := administrativeGenerator([]*model.Animal{animal}, nil).Generate(context.Background(), gc)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	assert.Equal(t, model.AlertCodeIdentifierMissing, cands[0].TemplateCode)
	assert.Equal(t, []string{"eid", "official_number"}, cands[0].Metadata["missing_fields"])
	assert.Equal(t, 31, cands[0].Metadata["age_days"])
}

func TestIdentifierMissingInsideGracePeriod(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, administrativePrefs(), nil)

	// Day 30 is still within grace
	animal := &model.Animal{
		Base:      model.Base{ID: uuid.New()},
		BirthDate: timePtr(today.AddDate(0, 0, -30)),
		Status:    model.AnimalStatusAlive,
	}

	cands, err := administrativeGenerator([]*model.Animal{animal}, nil).Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestIdentifierPresentSuppressesAlert(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, administrativePrefs(), nil)

	animal := &model.Animal{
		Base:      model.Base{ID: uuid.New()},
		EID:       "FR9876543210",
		BirthDate: timePtr(today.AddDate(0, 0, -90)),
		Status:    model.AnimalStatusAlive,
	}

	cands, err := administrativeGenerator([]*model.Animal{animal}, nil).Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestIdentifierUnknownBirthDateSkipped(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, administrativePrefs(), nil)

	animal := &model.Animal{
		Base:   model.Base{ID: uuid.New()},
		Status: model.AnimalStatusAlive,
	}

	cands, err := administrativeGenerator([]*model.Animal{animal}, nil).Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestPartialIdentifierRecorded(t *testing.T) {
	today := dateUTC(2025, 6, 15)
	gc := testContext(today, administrativePrefs(), nil)

	// One identifier present means no alert at all
	animal := &model.Animal{
		Base:           model.Base{ID: uuid.New()},
		OfficialNumber: "0042",
		BirthDate:      timePtr(today.AddDate(0, 0, -60)),
		Status:         model.AnimalStatusAlive,
	}

	cands, err := administrativeGenerator([]*model.Animal{animal}, nil).Generate(context.Background(), gc)
	require.NoError(t, err)
	assert.Empty(t, cands)
}
