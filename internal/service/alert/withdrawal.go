package alert

import (
	"context"
	"fmt"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// WithdrawalGenerator tracks medicinal withdrawal periods. The latest of
// the explicit and the computed meat/milk withdrawal dates is the
// authoritative end. One treatment yields either an "active" or an
// "ending" candidate, never both: the two codes use distinct unique keys
// so a treatment crossing into the reminder window resolves the active
// alert and creates the ending one.
type WithdrawalGenerator struct {
	treatments repository.TreatmentRepository
	logger     *logger.Logger
}

func NewWithdrawalGenerator(treatments repository.TreatmentRepository, log *logger.Logger) *WithdrawalGenerator {
	return &WithdrawalGenerator{
		treatments: treatments,
		logger:     log.WithComponent("generator.withdrawal"),
	}
}

func (g *WithdrawalGenerator) Category() model.AlertCategory {
	return model.AlertCategoryTreatment
}

func (g *WithdrawalGenerator) Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error) {
	if !gc.HasAnyPreference(model.AlertCodeWithdrawalActive, model.AlertCodeWithdrawalEnding) {
		return nil, nil
	}

	treatments, err := g.treatments.ListActiveWithdrawals(ctx, gc.FarmID, gc.Today)
	if err != nil {
		return nil, fmt.Errorf("failed to query active withdrawals: %w", err)
	}

	prefActive, hasActive := gc.PreferenceFor(model.AlertCodeWithdrawalActive)
	prefEnding, hasEnding := gc.PreferenceFor(model.AlertCodeWithdrawalEnding)

	reminderDays := defaultTreatmentReminderDays
	if hasEnding {
		reminderDays = prefEnding.EffectiveReminderDays(defaultTreatmentReminderDays)
	}

	var candidates []*model.CandidateAlert
	for _, t := range treatments {
		end := t.WithdrawalEnd()
		if end == nil {
			continue
		}
		endDate := startOfDay(*end)
		daysUntilEnd := daysBetween(gc.Today, endDate)
		if daysUntilEnd < 0 {
			continue
		}

		if daysUntilEnd > reminderDays {
			if !hasActive {
				continue
			}
			cand := newCandidate(prefActive, buildKey(model.AlertCodeWithdrawalActive, "treatment", t.ID.String()))
			cand.AnimalID = uuidPtr(t.AnimalID)
			cand.TreatmentID = uuidPtr(t.ID)
			cand.ExpiresAt = &endDate
			cand.Metadata["days_until_end"] = daysUntilEnd
			cand.Metadata["product"] = t.Product
			candidates = append(candidates, cand)
			continue
		}

		if !hasEnding {
			continue
		}
		cand := newCandidate(prefEnding, buildKey(model.AlertCodeWithdrawalEnding, "treatment", t.ID.String()))
		cand.AnimalID = uuidPtr(t.AnimalID)
		cand.TreatmentID = uuidPtr(t.ID)
		cand.ExpiresAt = &endDate
		cand.Metadata["days_until_end"] = daysUntilEnd
		cand.Metadata["product"] = t.Product
		candidates = append(candidates, cand)
	}

	return candidates, nil
}
