package alert

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/logger"
)

// Reconciler diffs the freshly computed candidate set against the
// persisted live alerts and commits the minimal create/resolve delta in
// a single transaction.
type Reconciler struct {
	alerts repository.AlertRepository
	logger *logger.Logger
}

func NewReconciler(alerts repository.AlertRepository, log *logger.Logger) *Reconciler {
	return &Reconciler{
		alerts: alerts,
		logger: log.WithComponent("reconciler"),
	}
}

// Reconcile indexes candidates and live alerts by unique key, creates
// alerts for new keys, resolves live alerts whose key vanished from the
// candidate set, and leaves matches untouched. A matched existing alert
// is never refreshed from the candidate: diff stability wins over
// metadata freshness. Dismissed alerts are sticky: a user's dismissal
// survives regeneration even when the trigger disappears.
func (r *Reconciler) Reconcile(ctx context.Context, farmID uuid.UUID, candidates []*model.CandidateAlert, gc *GenerationContext) (*model.GenerationSummary, error) {
	candidatesByKey := make(map[string]*model.CandidateAlert, len(candidates))
	for _, cand := range candidates {
		// Last write wins on key collisions; key design makes them
		// impossible across generators
		candidatesByKey[cand.UniqueKey] = cand
	}

	existingByKey := make(map[string]*model.Alert, len(gc.Existing))
	for _, existing := range gc.Existing {
		existingByKey[existing.UniqueKey] = existing
	}

	var toCreate []*model.Alert
	unchanged := 0
	for key, cand := range candidatesByKey {
		if _, ok := existingByKey[key]; ok {
			unchanged++
			continue
		}
		toCreate = append(toCreate, r.newAlert(farmID, cand))
	}
	sort.Slice(toCreate, func(i, j int) bool { return toCreate[i].UniqueKey < toCreate[j].UniqueKey })

	var toResolve []uuid.UUID
	for key, existing := range existingByKey {
		if _, ok := candidatesByKey[key]; ok {
			continue
		}
		if existing.Status == model.AlertStatusDismissed {
			continue
		}
		toResolve = append(toResolve, existing.ID)
	}
	sort.Slice(toResolve, func(i, j int) bool { return toResolve[i].String() < toResolve[j].String() })

	now := time.Now()
	err := r.alerts.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.alerts.CreateBatchTx(ctx, tx, toCreate); err != nil {
			return err
		}
		if _, err := r.alerts.ResolveBatchTx(ctx, tx, toResolve, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconciliation transaction failed: %w", err)
	}

	createdIDs := make([]uuid.UUID, 0, len(toCreate))
	for _, alert := range toCreate {
		createdIDs = append(createdIDs, alert.ID)
	}

	return &model.GenerationSummary{
		FarmID:      farmID,
		Created:     len(toCreate),
		Resolved:    len(toResolve),
		Unchanged:   unchanged,
		CreatedIDs:  createdIDs,
		ResolvedIDs: toResolve,
	}, nil
}

// newAlert materializes a candidate as a pending alert. The unique key is
// both a first-class column and embedded in metadata so API payloads stay
// self-describing.
func (r *Reconciler) newAlert(farmID uuid.UUID, cand *model.CandidateAlert) *model.Alert {
	metadata := model.JSONMap{}
	for k, v := range cand.Metadata {
		metadata[k] = v
	}
	metadata["unique_key"] = cand.UniqueKey

	return &model.Alert{
		FarmID:       farmID,
		TemplateID:   cand.TemplateID,
		TemplateCode: cand.TemplateCode,
		PreferenceID: cand.PreferenceID,
		AnimalID:     cand.AnimalID,
		LotID:        cand.LotID,
		TreatmentID:  cand.TreatmentID,
		BreedingID:   cand.BreedingID,
		DocumentID:   cand.DocumentID,
		UniqueKey:    cand.UniqueKey,
		Status:       model.AlertStatusPending,
		DueDate:      cand.DueDate,
		ExpiresAt:    cand.ExpiresAt,
		Metadata:     metadata,
	}
}
