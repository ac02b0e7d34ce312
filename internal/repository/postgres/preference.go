package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

// preferenceRow flattens the preference/template join for sqlx scanning
type preferenceRow struct {
	ID           uuid.UUID           `db:"id"`
	FarmID       uuid.UUID           `db:"farm_id"`
	TemplateID   uuid.UUID           `db:"template_id"`
	ReminderDays *int                `db:"reminder_days"`
	IsActive     bool                `db:"is_active"`
	CreatedAt    time.Time           `db:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at"`
	TplCode      string              `db:"tpl_code"`
	TplCategory  model.AlertCategory `db:"tpl_category"`
	TplPriority  string              `db:"tpl_priority"`
	TplIsActive  bool                `db:"tpl_is_active"`
}

func (r *preferenceRepository) ListActiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.FarmAlertPreference, error) {
	query := `
		SELECT p.id, p.farm_id, p.template_id, p.reminder_days, p.is_active,
			   p.created_at, p.updated_at,
			   t.code AS tpl_code, t.category AS tpl_category,
			   t.priority AS tpl_priority, t.is_active AS tpl_is_active
		FROM alert_preferences p
		JOIN alert_templates t ON t.id = p.template_id
		WHERE p.farm_id = $1
		AND p.is_active = true
		AND p.deleted_at IS NULL
		AND t.is_active = true
		AND t.deleted_at IS NULL
		ORDER BY t.category, t.code
	`
	var rows []preferenceRow
	if err := r.db.SelectContext(ctx, &rows, query, farmID); err != nil {
		return nil, fmt.Errorf("failed to list farm alert preferences: %w", err)
	}

	prefs := make([]*model.FarmAlertPreference, 0, len(rows))
	for _, row := range rows {
		pref := &model.FarmAlertPreference{
			AlertPreference: model.AlertPreference{
				FarmID:       row.FarmID,
				TemplateID:   row.TemplateID,
				ReminderDays: row.ReminderDays,
				IsActive:     row.IsActive,
			},
			Template: model.AlertTemplate{
				Code:     row.TplCode,
				Category: row.TplCategory,
				Priority: row.TplPriority,
				IsActive: row.TplIsActive,
			},
		}
		pref.ID = row.ID
		pref.CreatedAt = row.CreatedAt
		pref.UpdatedAt = row.UpdatedAt
		pref.Template.ID = row.TemplateID
		prefs = append(prefs, pref)
	}
	return prefs, nil
}
