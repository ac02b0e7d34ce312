package alert

import (
	"context"
	"fmt"
	"math"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// NutritionGenerator watches weighing cadence and growth rate. Per animal
// and run the growth outcomes are mutually exclusive: a negative weight
// delta is a weight loss and never doubles as a critical daily gain.
type NutritionGenerator struct {
	animals repository.AnimalRepository
	weights repository.WeightRepository
	logger  *logger.Logger
}

func NewNutritionGenerator(animals repository.AnimalRepository, weights repository.WeightRepository, log *logger.Logger) *NutritionGenerator {
	return &NutritionGenerator{
		animals: animals,
		weights: weights,
		logger:  log.WithComponent("generator.nutrition"),
	}
}

func (g *NutritionGenerator) Category() model.AlertCategory {
	return model.AlertCategoryNutrition
}

func (g *NutritionGenerator) Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error) {
	if !gc.HasAnyPreference(
		model.AlertCodeWeighingDue,
		model.AlertCodeWeightLoss,
		model.AlertCodeGMQCritical,
		model.AlertCodeGMQLow,
	) {
		return nil, nil
	}

	animals, err := g.animals.ListAlive(ctx, gc.FarmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alive animals: %w", err)
	}

	var candidates []*model.CandidateAlert
	for _, animal := range animals {
		weights, err := g.weights.ListRecentByAnimal(ctx, animal.ID, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to query weights for animal %s: %w", animal.ID, err)
		}

		if cand := g.checkWeighingDue(gc, animal, weights); cand != nil {
			candidates = append(candidates, cand)
		}
		if cand := g.checkGrowth(gc, animal, weights); cand != nil {
			candidates = append(candidates, cand)
		}
	}

	return candidates, nil
}

// checkWeighingDue flags animals not weighed within the configured
// interval, counting from birth when no weighing exists yet
func (g *NutritionGenerator) checkWeighingDue(gc *GenerationContext, animal *model.Animal, weights []*model.Weight) *model.CandidateAlert {
	pref, ok := gc.PreferenceFor(model.AlertCodeWeighingDue)
	if !ok {
		return nil
	}
	interval := pref.EffectiveReminderDays(defaultNutritionReminderDays)

	var since *model.Weight
	var reference string
	if len(weights) > 0 {
		since = weights[0]
		reference = "last_weighing"
	}

	var days int
	switch {
	case since != nil:
		days = daysBetween(since.WeighedAt, gc.Today)
	case animal.BirthDate != nil:
		days = daysBetween(*animal.BirthDate, gc.Today)
		reference = "birth"
	default:
		return nil
	}

	if days < interval {
		return nil
	}

	cand := newCandidate(pref, buildKey(model.AlertCodeWeighingDue, "animal", animal.ID.String()))
	cand.AnimalID = uuidPtr(animal.ID)
	cand.LotID = animal.LotID
	cand.Metadata["days_since_weighing"] = days
	cand.Metadata["reference"] = reference
	return cand
}

// checkGrowth classifies the average daily gain between the two most
// recent weighings. weights arrive most recent first.
func (g *NutritionGenerator) checkGrowth(gc *GenerationContext, animal *model.Animal, weights []*model.Weight) *model.CandidateAlert {
	if len(weights) < 2 {
		return nil
	}

	latest, previous := weights[0], weights[1]
	days := daysBetween(previous.WeighedAt, latest.WeighedAt)
	if days <= 0 {
		return nil
	}

	deltaKg := latest.WeightKg - previous.WeightKg
	gmq := deltaKg / float64(days) * 1000 // grams per day

	var code string
	switch {
	case deltaKg < 0:
		code = model.AlertCodeWeightLoss
	case gmq < gmqCriticalThreshold:
		code = model.AlertCodeGMQCritical
	case gmq < gmqLowThreshold:
		code = model.AlertCodeGMQLow
	default:
		return nil
	}

	pref, ok := gc.PreferenceFor(code)
	if !ok {
		return nil
	}

	cand := newCandidate(pref, buildKey(code, "animal", animal.ID.String()))
	cand.AnimalID = uuidPtr(animal.ID)
	cand.LotID = animal.LotID
	cand.Metadata["gmq_grams_per_day"] = math.Round(gmq*10) / 10
	cand.Metadata["delta_kg"] = math.Round(deltaKg*100) / 100
	cand.Metadata["period_days"] = days
	return cand
}
