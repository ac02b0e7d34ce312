package alert

import (
	"context"
	"fmt"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// QuarantineGenerator watches temporary quarantine movements nearing
// their expected return. A movement can cover several animals; the alert
// is per animal so each return can be tracked and resolved on its own.
type QuarantineGenerator struct {
	movements repository.MovementRepository
	logger    *logger.Logger
}

func NewQuarantineGenerator(movements repository.MovementRepository, log *logger.Logger) *QuarantineGenerator {
	return &QuarantineGenerator{
		movements: movements,
		logger:    log.WithComponent("generator.quarantine"),
	}
}

func (g *QuarantineGenerator) Category() model.AlertCategory {
	return model.AlertCategoryHealth
}

func (g *QuarantineGenerator) Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error) {
	pref, ok := gc.PreferenceFor(model.AlertCodeQuarantineEnding)
	if !ok {
		return nil, nil
	}
	window := pref.EffectiveReminderDays(defaultHealthReminderDays)

	movements, err := g.movements.ListActiveQuarantines(ctx, gc.FarmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active quarantines: %w", err)
	}

	var candidates []*model.CandidateAlert
	for _, m := range movements {
		if m.ExpectedReturnDate == nil {
			continue
		}
		returnDate := startOfDay(*m.ExpectedReturnDate)
		daysUntilReturn := daysBetween(gc.Today, returnDate)
		if daysUntilReturn < 0 || daysUntilReturn > window {
			continue
		}

		for _, animalID := range m.AnimalIDs {
			cand := newCandidate(pref, buildKey(model.AlertCodeQuarantineEnding, "movement", m.ID.String(), "animal", animalID.String()))
			cand.AnimalID = uuidPtr(animalID)
			cand.DueDate = &returnDate
			cand.Metadata["movement_id"] = m.ID.String()
			cand.Metadata["days_until_return"] = daysUntilReturn
			candidates = append(candidates, cand)
		}
	}

	return candidates, nil
}
