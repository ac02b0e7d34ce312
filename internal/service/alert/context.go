package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

// GenerationContext is the shared read-only snapshot for one generation
// run: the farm, the start-of-day instant all date math runs against, the
// active rule preferences and the currently live persisted alerts.
// Generators never mutate it.
type GenerationContext struct {
	FarmID      uuid.UUID
	Today       time.Time
	Preferences []*model.FarmAlertPreference
	Existing    []*model.Alert

	prefsByCode map[string]*model.FarmAlertPreference
}

// PreferenceFor returns the farm's active preference for a template code.
// A rule whose code has no active preference is skipped entirely.
func (gc *GenerationContext) PreferenceFor(code string) (*model.FarmAlertPreference, bool) {
	pref, ok := gc.prefsByCode[code]
	return pref, ok
}

// HasAnyPreference reports whether at least one of the codes has an
// active preference, letting generators bail out before querying
// operational data
func (gc *GenerationContext) HasAnyPreference(codes ...string) bool {
	for _, code := range codes {
		if _, ok := gc.prefsByCode[code]; ok {
			return true
		}
	}
	return false
}

// buildContext loads the farm's rule preferences and live alerts. Pure
// read; any collaborator failure is fatal for the run.
func (s *Service) buildContext(ctx context.Context, farmID uuid.UUID) (*GenerationContext, error) {
	prefs, err := s.prefs.ListActiveForFarm(ctx, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert preferences: %w", err)
	}

	existing, err := s.alerts.ListLiveForFarm(ctx, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to load live alerts: %w", err)
	}

	return newGenerationContext(farmID, time.Now(), prefs, existing), nil
}

func newGenerationContext(farmID uuid.UUID, now time.Time, prefs []*model.FarmAlertPreference, existing []*model.Alert) *GenerationContext {
	byCode := make(map[string]*model.FarmAlertPreference, len(prefs))
	for _, pref := range prefs {
		byCode[pref.Template.Code] = pref
	}

	return &GenerationContext{
		FarmID:      farmID,
		Today:       startOfDay(now),
		Preferences: prefs,
		Existing:    existing,
		prefsByCode: byCode,
	}
}
