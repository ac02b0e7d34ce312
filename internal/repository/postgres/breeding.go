package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

func (r *breedingRepository) ListOngoing(ctx context.Context, farmID uuid.UUID) ([]*model.Breeding, error) {
	query := `
		SELECT b.id, b.farm_id, b.mother_id, b.father_id, b.status,
			   b.breeding_date, b.expected_birth_date,
			   b.created_at, b.updated_at, b.deleted_at
		FROM breedings b
		JOIN animals a ON a.id = b.mother_id
		WHERE b.farm_id = $1
		AND b.status IN ($2, $3)
		AND b.deleted_at IS NULL
		AND a.status = $4
		AND a.deleted_at IS NULL
		ORDER BY b.breeding_date ASC
	`
	var breedings []*model.Breeding
	err := r.db.SelectContext(ctx, &breedings, query,
		farmID, model.BreedingStatusConfirmed, model.BreedingStatusInProgress, model.AnimalStatusAlive)
	if err != nil {
		return nil, fmt.Errorf("failed to list ongoing breedings: %w", err)
	}
	return breedings, nil
}
