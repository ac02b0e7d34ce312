package alert

import (
	"context"
	"fmt"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// ReproductionGenerator watches ongoing breedings: imminent calvings for
// confirmed or in-progress breedings, and pregnancy checks falling due a
// fixed offset after an unconfirmed breeding.
type ReproductionGenerator struct {
	breedings repository.BreedingRepository
	logger    *logger.Logger
}

func NewReproductionGenerator(breedings repository.BreedingRepository, log *logger.Logger) *ReproductionGenerator {
	return &ReproductionGenerator{
		breedings: breedings,
		logger:    log.WithComponent("generator.reproduction"),
	}
}

func (g *ReproductionGenerator) Category() model.AlertCategory {
	return model.AlertCategoryReproduction
}

func (g *ReproductionGenerator) Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error) {
	if !gc.HasAnyPreference(model.AlertCodeCalvingSoon, model.AlertCodePregnancyCheck) {
		return nil, nil
	}

	breedings, err := g.breedings.ListOngoing(ctx, gc.FarmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ongoing breedings: %w", err)
	}

	prefCalving, hasCalving := gc.PreferenceFor(model.AlertCodeCalvingSoon)
	prefCheck, hasCheck := gc.PreferenceFor(model.AlertCodePregnancyCheck)

	var candidates []*model.CandidateAlert
	for _, b := range breedings {
		if hasCalving && b.ExpectedBirthDate != nil {
			birthDate := startOfDay(*b.ExpectedBirthDate)
			daysUntilBirth := daysBetween(gc.Today, birthDate)
			window := prefCalving.EffectiveReminderDays(defaultReproductionReminderDays)

			if daysUntilBirth >= 0 && daysUntilBirth <= window {
				cand := newCandidate(prefCalving, buildKey(model.AlertCodeCalvingSoon, "breeding", b.ID.String()))
				cand.AnimalID = uuidPtr(b.MotherID)
				cand.BreedingID = uuidPtr(b.ID)
				cand.DueDate = &birthDate
				cand.Metadata["days_until_birth"] = daysUntilBirth
				candidates = append(candidates, cand)
			}
		}

		// Pregnancy checks only apply while the breeding is unconfirmed
		if hasCheck && b.Status == model.BreedingStatusInProgress {
			checkDate := startOfDay(b.BreedingDate).AddDate(0, 0, pregnancyCheckOffsetDays)
			daysUntilCheck := daysBetween(gc.Today, checkDate)
			window := prefCheck.EffectiveReminderDays(pregnancyCheckReminderDays)

			if daysUntilCheck >= 0 && daysUntilCheck <= window {
				cand := newCandidate(prefCheck, buildKey(model.AlertCodePregnancyCheck, "breeding", b.ID.String()))
				cand.AnimalID = uuidPtr(b.MotherID)
				cand.BreedingID = uuidPtr(b.ID)
				cand.DueDate = &checkDate
				cand.Metadata["days_until_check"] = daysUntilCheck
				candidates = append(candidates, cand)
			}
		}
	}

	return candidates, nil
}
