package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

func (r *documentRepository) ListExpiringBetween(ctx context.Context, farmID uuid.UUID, from, to time.Time) ([]*model.Document, error) {
	query := `
		SELECT id, farm_id, name, type, storage_path, expiry_date,
			   created_at, updated_at, deleted_at
		FROM documents
		WHERE farm_id = $1
		AND expiry_date IS NOT NULL
		AND expiry_date >= $2
		AND expiry_date <= $3
		AND deleted_at IS NULL
		ORDER BY expiry_date ASC
	`
	var documents []*model.Document
	err := r.db.SelectContext(ctx, &documents, query, farmID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring documents: %w", err)
	}
	return documents, nil
}
