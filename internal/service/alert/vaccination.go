package alert

import (
	"context"
	"fmt"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// VaccinationGenerator watches vaccination treatments with a planned next
// due date. A vaccination exactly on its due date is due, not overdue:
// the boundary is inclusive on the due side.
type VaccinationGenerator struct {
	treatments repository.TreatmentRepository
	logger     *logger.Logger
}

func NewVaccinationGenerator(treatments repository.TreatmentRepository, log *logger.Logger) *VaccinationGenerator {
	return &VaccinationGenerator{
		treatments: treatments,
		logger:     log.WithComponent("generator.vaccination"),
	}
}

func (g *VaccinationGenerator) Category() model.AlertCategory {
	return model.AlertCategoryVaccination
}

func (g *VaccinationGenerator) Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error) {
	if !gc.HasAnyPreference(model.AlertCodeVaccinationDue, model.AlertCodeVaccinationOverdue) {
		return nil, nil
	}

	treatments, err := g.treatments.ListVaccinations(ctx, gc.FarmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vaccinations: %w", err)
	}

	prefDue, hasDue := gc.PreferenceFor(model.AlertCodeVaccinationDue)
	prefOverdue, hasOverdue := gc.PreferenceFor(model.AlertCodeVaccinationOverdue)

	var candidates []*model.CandidateAlert
	for _, t := range treatments {
		if t.NextDueDate == nil {
			continue
		}
		dueDate := startOfDay(*t.NextDueDate)
		daysUntilDue := daysBetween(gc.Today, dueDate)

		switch {
		case daysUntilDue < 0:
			if !hasOverdue {
				continue
			}
			cand := newCandidate(prefOverdue, buildKey(model.AlertCodeVaccinationOverdue, "treatment", t.ID.String()))
			cand.AnimalID = uuidPtr(t.AnimalID)
			cand.TreatmentID = uuidPtr(t.ID)
			cand.DueDate = &dueDate
			cand.Metadata["days_overdue"] = -daysUntilDue
			cand.Metadata["product"] = t.Product
			candidates = append(candidates, cand)

		case hasDue && daysUntilDue <= prefDue.EffectiveReminderDays(defaultVaccinationReminderDays):
			cand := newCandidate(prefDue, buildKey(model.AlertCodeVaccinationDue, "treatment", t.ID.String()))
			cand.AnimalID = uuidPtr(t.AnimalID)
			cand.TreatmentID = uuidPtr(t.ID)
			cand.DueDate = &dueDate
			cand.Metadata["days_until_due"] = daysUntilDue
			cand.Metadata["product"] = t.Product
			candidates = append(candidates, cand)
		}
	}

	return candidates, nil
}
