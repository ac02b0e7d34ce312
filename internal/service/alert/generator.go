package alert

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// Generator produces candidate alerts for one category. Generators are
// stateless and read-only: they query operational data, never the alert
// store, and always emit every candidate they believe should exist. The
// reconciler dedupes against persisted alerts by unique key.
type Generator interface {
	Category() model.AlertCategory
	Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error)
}

// System reminder-day defaults per category, applied when the farm's
// preference carries no override
const (
	defaultVaccinationReminderDays    = 7
	defaultTreatmentReminderDays      = 3
	defaultNutritionReminderDays      = 14
	defaultReproductionReminderDays   = 7
	defaultHealthReminderDays         = 30
	defaultAdministrativeReminderDays = 30
)

const (
	// Pregnancy checks fall due a fixed offset after breeding and carry
	// their own reminder window, independent of the calving-soon window
	pregnancyCheckOffsetDays   = 45
	pregnancyCheckReminderDays = 7

	// Animals get this many days after birth before a missing identifier
	// becomes an alert
	identifierGraceDays = 30

	// Average daily gain bands, grams per day
	gmqCriticalThreshold = 50.0
	gmqLowThreshold      = 100.0
)

// startOfDay truncates to midnight UTC. All due-date arithmetic runs on
// whole days against the context's Today to stay immune to time zones
// and DST offsets.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole-day difference to - from. Negative when
// to is in the past relative to from.
func daysBetween(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}

// buildKey joins key parts into the deterministic unique key used for
// dedup, e.g. "VACC_DUE:treatment:<id>"
func buildKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// newCandidate starts a candidate bound to the preference and template
// that triggered it
func newCandidate(pref *model.FarmAlertPreference, uniqueKey string) *model.CandidateAlert {
	prefID := pref.ID
	return &model.CandidateAlert{
		TemplateID:   pref.TemplateID,
		TemplateCode: pref.Template.Code,
		PreferenceID: &prefID,
		UniqueKey:    uniqueKey,
		Metadata:     model.JSONMap{},
	}
}

// NewGenerators constructs the fixed set of category generators. The
// category set is closed, so there is no runtime registration.
func NewGenerators(
	animals repository.AnimalRepository,
	treatments repository.TreatmentRepository,
	weights repository.WeightRepository,
	breedings repository.BreedingRepository,
	movements repository.MovementRepository,
	documents repository.DocumentRepository,
	log *logger.Logger,
) []Generator {
	return []Generator{
		NewVaccinationGenerator(treatments, log),
		NewWithdrawalGenerator(treatments, log),
		NewNutritionGenerator(animals, weights, log),
		NewReproductionGenerator(breedings, log),
		NewQuarantineGenerator(movements, log),
		NewAdministrativeGenerator(animals, documents, log),
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
