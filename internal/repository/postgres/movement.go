package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

func (r *movementRepository) ListActiveQuarantines(ctx context.Context, farmID uuid.UUID) ([]*model.Movement, error) {
	query := `
		SELECT id, farm_id, destination, is_temporary, temporary_type,
			   moved_at, expected_return_date, return_date,
			   created_at, updated_at, deleted_at
		FROM movements
		WHERE farm_id = $1
		AND is_temporary = true
		AND temporary_type = $2
		AND expected_return_date IS NOT NULL
		AND return_date IS NULL
		AND deleted_at IS NULL
		ORDER BY expected_return_date ASC
	`
	var movements []*model.Movement
	err := r.db.SelectContext(ctx, &movements, query, farmID, model.TemporaryMovementQuarantine)
	if err != nil {
		return nil, fmt.Errorf("failed to list active quarantines: %w", err)
	}

	for _, m := range movements {
		if err := r.loadAnimals(ctx, m); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

// loadAnimals fills the movement's animal set from the join table,
// keeping only alive, non-deleted animals
func (r *movementRepository) loadAnimals(ctx context.Context, movement *model.Movement) error {
	query := `
		SELECT ma.animal_id
		FROM movement_animals ma
		JOIN animals a ON a.id = ma.animal_id
		WHERE ma.movement_id = $1
		AND a.status = $2
		AND a.deleted_at IS NULL
		ORDER BY ma.animal_id
	`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, movement.ID, model.AnimalStatusAlive); err != nil {
		return fmt.Errorf("failed to load movement animals: %w", err)
	}
	movement.AnimalIDs = ids
	return nil
}
