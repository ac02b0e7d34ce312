package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

const treatmentColumns = `
	t.id, t.farm_id, t.animal_id, t.kind, t.product, t.administered_at,
	t.next_due_date, t.withdrawal_end_date,
	t.computed_withdrawal_meat_date, t.computed_withdrawal_milk_date,
	t.created_at, t.updated_at, t.deleted_at
`

func (r *treatmentRepository) ListVaccinations(ctx context.Context, farmID uuid.UUID) ([]*model.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM treatments t
		JOIN animals a ON a.id = t.animal_id
		WHERE t.farm_id = $1
		AND t.kind = $2
		AND t.next_due_date IS NOT NULL
		AND t.deleted_at IS NULL
		AND a.status = $3
		AND a.deleted_at IS NULL
		ORDER BY t.next_due_date ASC
	`
	var treatments []*model.Treatment
	err := r.db.SelectContext(ctx, &treatments, query, farmID, model.TreatmentKindVaccination, model.AnimalStatusAlive)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaccinations: %w", err)
	}
	return treatments, nil
}

func (r *treatmentRepository) ListActiveWithdrawals(ctx context.Context, farmID uuid.UUID, asOf time.Time) ([]*model.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM treatments t
		JOIN animals a ON a.id = t.animal_id
		WHERE t.farm_id = $1
		AND t.kind = $2
		AND GREATEST(
			COALESCE(t.withdrawal_end_date, 'epoch'::timestamptz),
			COALESCE(t.computed_withdrawal_meat_date, 'epoch'::timestamptz),
			COALESCE(t.computed_withdrawal_milk_date, 'epoch'::timestamptz)
		) >= $3
		AND t.deleted_at IS NULL
		AND a.status = $4
		AND a.deleted_at IS NULL
		ORDER BY t.administered_at ASC
	`
	var treatments []*model.Treatment
	err := r.db.SelectContext(ctx, &treatments, query, farmID, model.TreatmentKindTreatment, asOf, model.AnimalStatusAlive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active withdrawals: %w", err)
	}
	return treatments, nil
}
