package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

func (r *weightRepository) ListRecentByAnimal(ctx context.Context, animalID uuid.UUID, limit int) ([]*model.Weight, error) {
	query := `
		SELECT id, farm_id, animal_id, weighed_at, weight_kg,
			   created_at, updated_at, deleted_at
		FROM weights
		WHERE animal_id = $1 AND deleted_at IS NULL
		ORDER BY weighed_at DESC
		LIMIT $2
	`
	var weights []*model.Weight
	err := r.db.SelectContext(ctx, &weights, query, animalID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent weights: %w", err)
	}
	return weights, nil
}
