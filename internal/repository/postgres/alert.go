package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/herd-api/internal/model"
)

const alertColumns = `
	al.id, al.farm_id, al.template_id, al.template_code, al.preference_id,
	al.animal_id, al.lot_id, al.treatment_id, al.breeding_id, al.document_id,
	al.unique_key, al.status, al.due_date, al.expires_at, al.triggered_at,
	al.read_at, al.resolved_at, al.dismissed_at, al.version, al.metadata,
	al.created_at, al.updated_at, al.deleted_at
`

func (r *alertRepository) ListLiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.Alert, error) {
	// Dismissed rows are loaded on purpose: they must keep suppressing
	// regeneration of the same unique key. Only resolved and soft-deleted
	// rows drop out of duplicate detection.
	query := `
		SELECT ` + alertColumns + `
		FROM alerts al
		WHERE al.farm_id = $1
		AND al.status IN ($2, $3, $4)
		AND al.deleted_at IS NULL
	`
	var alerts []*model.Alert
	err := r.db.SelectContext(ctx, &alerts, query, farmID,
		model.AlertStatusPending, model.AlertStatusRead, model.AlertStatusDismissed)
	if err != nil {
		return nil, fmt.Errorf("failed to list live alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) List(ctx context.Context, farmID uuid.UUID, filters *model.AlertFilters) ([]*model.Alert, int, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts al
		JOIN alert_templates t ON t.id = al.template_id
		WHERE al.farm_id = $1 AND al.deleted_at IS NULL
	`
	countQuery := `
		SELECT COUNT(*)
		FROM alerts al
		JOIN alert_templates t ON t.id = al.template_id
		WHERE al.farm_id = $1 AND al.deleted_at IS NULL
	`
	args := []interface{}{farmID}
	argCount := 2

	if filters != nil {
		if filters.Status != "" {
			cond := fmt.Sprintf(" AND al.status = $%d", argCount)
			query += cond
			countQuery += cond
			args = append(args, filters.Status)
			argCount++
		}
		if filters.Category != "" {
			cond := fmt.Sprintf(" AND t.category = $%d", argCount)
			query += cond
			countQuery += cond
			args = append(args, filters.Category)
			argCount++
		}
		if filters.AnimalID != nil {
			cond := fmt.Sprintf(" AND al.animal_id = $%d", argCount)
			query += cond
			countQuery += cond
			args = append(args, *filters.AnimalID)
			argCount++
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	query += " ORDER BY al.triggered_at DESC"
	if filters != nil && filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, filters.PageSize, (page-1)*filters.PageSize)
	}

	var alerts []*model.Alert
	if err := r.db.SelectContext(ctx, &alerts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, total, nil
}

func (r *alertRepository) CreateBatchTx(ctx context.Context, tx *sqlx.Tx, alerts []*model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	query := `
		INSERT INTO alerts (
			id, farm_id, template_id, template_code, preference_id,
			animal_id, lot_id, treatment_id, breeding_id, document_id,
			unique_key, status, due_date, expires_at, triggered_at,
			version, metadata, created_at, updated_at
		) VALUES (
			:id, :farm_id, :template_id, :template_code, :preference_id,
			:animal_id, :lot_id, :treatment_id, :breeding_id, :document_id,
			:unique_key, :status, :due_date, :expires_at, :triggered_at,
			:version, :metadata, :created_at, :updated_at
		)
	`
	now := time.Now()
	for _, alert := range alerts {
		if alert.ID == uuid.Nil {
			alert.ID = uuid.New()
		}
		alert.Status = model.AlertStatusPending
		alert.Version = 1
		alert.TriggeredAt = now
		alert.CreatedAt = now
		alert.UpdatedAt = now
	}

	if _, err := tx.NamedExecContext(ctx, query, alerts); err != nil {
		return fmt.Errorf("failed to batch insert alerts: %w", err)
	}
	return nil
}

func (r *alertRepository) ResolveBatchTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, resolvedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE alerts
		SET status = $1, resolved_at = $2, version = version + 1, updated_at = $2
		WHERE id = ANY($3)
		AND status IN ($4, $5)
		AND deleted_at IS NULL
	`
	result, err := tx.ExecContext(ctx, query,
		model.AlertStatusResolved, resolvedAt, pq.Array(ids),
		model.AlertStatusPending, model.AlertStatusRead)
	if err != nil {
		return 0, fmt.Errorf("failed to batch resolve alerts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (r *alertRepository) ForceResolve(ctx context.Context, farmID uuid.UUID, ids []uuid.UUID, resolvedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE alerts
		SET status = $1, resolved_at = $2, version = version + 1, updated_at = $2
		WHERE farm_id = $3
		AND id = ANY($4)
		AND status IN ($5, $6)
		AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		model.AlertStatusResolved, resolvedAt, farmID, pq.Array(ids),
		model.AlertStatusPending, model.AlertStatusRead)
	if err != nil {
		return 0, fmt.Errorf("failed to force resolve alerts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
