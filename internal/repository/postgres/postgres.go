package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/herd-api/internal/repository"
)

type farmRepository struct {
	db *sqlx.DB
}

type animalRepository struct {
	db *sqlx.DB
}

type treatmentRepository struct {
	db *sqlx.DB
}

type weightRepository struct {
	db *sqlx.DB
}

type breedingRepository struct {
	db *sqlx.DB
}

type movementRepository struct {
	db *sqlx.DB
}

type documentRepository struct {
	db *sqlx.DB
}

type preferenceRepository struct {
	db *sqlx.DB
}

type alertRepository struct {
	BaseRepository
}

func NewFarmRepository(db *sqlx.DB) repository.FarmRepository {
	return &farmRepository{db: db}
}

func NewAnimalRepository(db *sqlx.DB) repository.AnimalRepository {
	return &animalRepository{db: db}
}

func NewTreatmentRepository(db *sqlx.DB) repository.TreatmentRepository {
	return &treatmentRepository{db: db}
}

func NewWeightRepository(db *sqlx.DB) repository.WeightRepository {
	return &weightRepository{db: db}
}

func NewBreedingRepository(db *sqlx.DB) repository.BreedingRepository {
	return &breedingRepository{db: db}
}

func NewMovementRepository(db *sqlx.DB) repository.MovementRepository {
	return &movementRepository{db: db}
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func NewPreferenceRepository(db *sqlx.DB) repository.PreferenceRepository {
	return &preferenceRepository{db: db}
}

func NewAlertRepository(db *sqlx.DB) repository.AlertRepository {
	return &alertRepository{BaseRepository: NewBaseRepository(db)}
}
