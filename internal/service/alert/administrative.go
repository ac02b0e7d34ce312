package alert

import (
	"context"
	"fmt"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// AdministrativeGenerator covers paperwork: documents about to expire and
// animals past the post-birth grace period still missing both official
// identifiers.
type AdministrativeGenerator struct {
	animals   repository.AnimalRepository
	documents repository.DocumentRepository
	logger    *logger.Logger
}

func NewAdministrativeGenerator(animals repository.AnimalRepository, documents repository.DocumentRepository, log *logger.Logger) *AdministrativeGenerator {
	return &AdministrativeGenerator{
		animals:   animals,
		documents: documents,
		logger:    log.WithComponent("generator.administrative"),
	}
}

func (g *AdministrativeGenerator) Category() model.AlertCategory {
	return model.AlertCategoryAdministrative
}

func (g *AdministrativeGenerator) Generate(ctx context.Context, gc *GenerationContext) ([]*model.CandidateAlert, error) {
	if !gc.HasAnyPreference(model.AlertCodeDocumentExpiring, model.AlertCodeIdentifierMissing) {
		return nil, nil
	}

	var candidates []*model.CandidateAlert

	if pref, ok := gc.PreferenceFor(model.AlertCodeDocumentExpiring); ok {
		docs, err := g.expiringDocuments(ctx, gc, pref)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, docs...)
	}

	if pref, ok := gc.PreferenceFor(model.AlertCodeIdentifierMissing); ok {
		missing, err := g.missingIdentifiers(ctx, gc, pref)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, missing...)
	}

	return candidates, nil
}

func (g *AdministrativeGenerator) expiringDocuments(ctx context.Context, gc *GenerationContext, pref *model.FarmAlertPreference) ([]*model.CandidateAlert, error) {
	window := pref.EffectiveReminderDays(defaultAdministrativeReminderDays)
	until := gc.Today.AddDate(0, 0, window)

	docs, err := g.documents.ListExpiringBetween(ctx, gc.FarmID, gc.Today, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring documents: %w", err)
	}

	var candidates []*model.CandidateAlert
	for _, doc := range docs {
		if doc.ExpiryDate == nil {
			continue
		}
		expiry := startOfDay(*doc.ExpiryDate)

		cand := newCandidate(pref, buildKey(model.AlertCodeDocumentExpiring, "document", doc.ID.String()))
		cand.DocumentID = uuidPtr(doc.ID)
		cand.ExpiresAt = &expiry
		cand.Metadata["document_name"] = doc.Name
		cand.Metadata["document_type"] = doc.Type
		cand.Metadata["days_until_expiry"] = daysBetween(gc.Today, expiry)
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// missingIdentifiers flags alive animals born more than the grace period
// ago carrying neither an electronic tag nor an official number. Metadata
// records which fields are missing for display.
func (g *AdministrativeGenerator) missingIdentifiers(ctx context.Context, gc *GenerationContext, pref *model.FarmAlertPreference) ([]*model.CandidateAlert, error) {
	animals, err := g.animals.ListAlive(ctx, gc.FarmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alive animals: %w", err)
	}

	var candidates []*model.CandidateAlert
	for _, animal := range animals {
		if animal.BirthDate == nil {
			continue
		}
		if daysBetween(*animal.BirthDate, gc.Today) <= identifierGraceDays {
			continue
		}
		if animal.HasIdentifier() {
			continue
		}

		missing := make([]string, 0, 2)
		if animal.EID == "" {
			missing = append(missing, "eid")
		}
		if animal.OfficialNumber == "" {
			missing = append(missing, "official_number")
		}

		cand := newCandidate(pref, buildKey(model.AlertCodeIdentifierMissing, "animal", animal.ID.String()))
		cand.AnimalID = uuidPtr(animal.ID)
		cand.LotID = animal.LotID
		cand.Metadata["missing_fields"] = missing
		cand.Metadata["age_days"] = daysBetween(*animal.BirthDate, gc.Today)
		candidates = append(candidates, cand)
	}
	return candidates, nil
}
