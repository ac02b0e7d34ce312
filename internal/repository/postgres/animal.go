package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
)

const animalColumns = `
	id, farm_id, lot_id, name, eid, official_number, sex, breed,
	birth_date, status, created_at, updated_at, deleted_at
`

func (r *animalRepository) Create(ctx context.Context, animal *model.Animal) error {
	query := `
		INSERT INTO animals (
			id, farm_id, lot_id, name, eid, official_number, sex, breed,
			birth_date, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	animal.ID = uuid.New()
	animal.CreatedAt = time.Now()
	animal.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		animal.ID,
		animal.FarmID,
		animal.LotID,
		animal.Name,
		animal.EID,
		animal.OfficialNumber,
		animal.Sex,
		animal.Breed,
		animal.BirthDate,
		animal.Status,
		animal.CreatedAt,
		animal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create animal: %w", err)
	}
	return nil
}

func (r *animalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE id = $1 AND deleted_at IS NULL`

	var animal model.Animal
	err := r.db.GetContext(ctx, &animal, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return &animal, nil
}

func (r *animalRepository) Update(ctx context.Context, animal *model.Animal) error {
	query := `
		UPDATE animals
		SET lot_id = $1, name = $2, eid = $3, official_number = $4,
			sex = $5, breed = $6, birth_date = $7, status = $8, updated_at = $9
		WHERE id = $10 AND deleted_at IS NULL
	`
	animal.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		animal.LotID,
		animal.Name,
		animal.EID,
		animal.OfficialNumber,
		animal.Sex,
		animal.Breed,
		animal.BirthDate,
		animal.Status,
		animal.UpdatedAt,
		animal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update animal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("animal not found")
	}

	return nil
}

func (r *animalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE animals
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("animal not found")
	}

	return nil
}

func (r *animalRepository) List(ctx context.Context, farmID uuid.UUID, filters *model.AnimalFilters) ([]*model.Animal, int, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE farm_id = $1 AND deleted_at IS NULL`
	countQuery := `SELECT COUNT(*) FROM animals WHERE farm_id = $1 AND deleted_at IS NULL`
	args := []interface{}{farmID}
	argCount := 2

	if filters != nil {
		if filters.Status != "" {
			cond := fmt.Sprintf(" AND status = $%d", argCount)
			query += cond
			countQuery += cond
			args = append(args, filters.Status)
			argCount++
		}
		if filters.LotID != nil {
			cond := fmt.Sprintf(" AND lot_id = $%d", argCount)
			query += cond
			countQuery += cond
			args = append(args, *filters.LotID)
			argCount++
		}
		if filters.SearchTerm != "" {
			cond := fmt.Sprintf(" AND (name ILIKE $%d OR eid ILIKE $%d OR official_number ILIKE $%d)", argCount, argCount, argCount)
			query += cond
			countQuery += cond
			args = append(args, "%"+filters.SearchTerm+"%")
			argCount++
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count animals: %w", err)
	}

	query += " ORDER BY name ASC"
	if filters != nil && filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, filters.PageSize, (page-1)*filters.PageSize)
	}

	var animals []*model.Animal
	if err := r.db.SelectContext(ctx, &animals, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list animals: %w", err)
	}
	return animals, total, nil
}

func (r *animalRepository) ListAlive(ctx context.Context, farmID uuid.UUID) ([]*model.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals
		WHERE farm_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY name ASC`

	var animals []*model.Animal
	err := r.db.SelectContext(ctx, &animals, query, farmID, model.AnimalStatusAlive)
	if err != nil {
		return nil, fmt.Errorf("failed to list alive animals: %w", err)
	}
	return animals, nil
}
