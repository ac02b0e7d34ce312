package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

func (r *farmRepository) Get(ctx context.Context, id uuid.UUID) (*model.Farm, error) {
	query := `
		SELECT id, name, country, timezone, is_active,
			   created_at, updated_at, deleted_at
		FROM farms
		WHERE id = $1 AND deleted_at IS NULL
	`
	var farm model.Farm
	err := r.db.GetContext(ctx, &farm, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return &farm, nil
}

func (r *farmRepository) ListActive(ctx context.Context) ([]*model.Farm, error) {
	query := `
		SELECT id, name, country, timezone, is_active,
			   created_at, updated_at, deleted_at
		FROM farms
		WHERE is_active = true AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	var farms []*model.Farm
	err := r.db.SelectContext(ctx, &farms, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active farms: %w", err)
	}
	return farms, nil
}
