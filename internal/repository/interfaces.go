package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/herd-api/internal/model"
)

// All repository interfaces in one file
type (
	FarmRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Farm, error)
		ListActive(ctx context.Context) ([]*model.Farm, error)
	}

	AnimalRepository interface {
		Create(ctx context.Context, animal *model.Animal) error
		Get(ctx context.Context, id uuid.UUID) (*model.Animal, error)
		Update(ctx context.Context, animal *model.Animal) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, farmID uuid.UUID, filters *model.AnimalFilters) ([]*model.Animal, int, error)
		ListAlive(ctx context.Context, farmID uuid.UUID) ([]*model.Animal, error)
	}

	TreatmentRepository interface {
		// ListVaccinations returns vaccination treatments with a planned next
		// due date whose animal is still alive
		ListVaccinations(ctx context.Context, farmID uuid.UUID) ([]*model.Treatment, error)
		// ListActiveWithdrawals returns treatments whose latest withdrawal
		// date (explicit or computed) is on or after asOf, animal alive
		ListActiveWithdrawals(ctx context.Context, farmID uuid.UUID, asOf time.Time) ([]*model.Treatment, error)
	}

	WeightRepository interface {
		// ListRecentByAnimal returns up to limit weighings, most recent first
		ListRecentByAnimal(ctx context.Context, animalID uuid.UUID, limit int) ([]*model.Weight, error)
	}

	BreedingRepository interface {
		// ListOngoing returns confirmed and in-progress breedings whose
		// mother is still alive
		ListOngoing(ctx context.Context, farmID uuid.UUID) ([]*model.Breeding, error)
	}

	MovementRepository interface {
		// ListActiveQuarantines returns temporary quarantine movements with
		// an expected return date and no actual return yet, animal sets loaded
		ListActiveQuarantines(ctx context.Context, farmID uuid.UUID) ([]*model.Movement, error)
	}

	DocumentRepository interface {
		// ListExpiringBetween returns documents whose expiry date falls in
		// [from, to], inclusive on both ends
		ListExpiringBetween(ctx context.Context, farmID uuid.UUID, from, to time.Time) ([]*model.Document, error)
	}

	PreferenceRepository interface {
		// ListActiveForFarm returns the farm's active preferences joined with
		// their active templates, both non-deleted
		ListActiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.FarmAlertPreference, error)
	}

	AlertRepository interface {
		// ListLiveForFarm returns non-deleted pending, read and dismissed
		// alerts. Dismissed alerts are included so a user's dismissal keeps
		// suppressing regeneration of the same fact.
		ListLiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.Alert, error)
		List(ctx context.Context, farmID uuid.UUID, filters *model.AlertFilters) ([]*model.Alert, int, error)
		// CreateBatchTx inserts new pending alerts inside the given transaction
		CreateBatchTx(ctx context.Context, tx *sqlx.Tx, alerts []*model.Alert) error
		// ResolveBatchTx transitions the given alerts to resolved, stamping
		// resolved_at and bumping the optimistic version counter
		ResolveBatchTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, resolvedAt time.Time) (int64, error)
		// ForceResolve resolves specific alerts regardless of generator
		// output, only touching pending and read rows
		ForceResolve(ctx context.Context, farmID uuid.UUID, ids []uuid.UUID, resolvedAt time.Time) (int64, error)
		// WithTx runs fn inside a single transaction, rolling back on error
		WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
	}
)
