package model

import (
	"time"

	"github.com/google/uuid"
)

type BreedingStatus string

const (
	BreedingStatusInProgress BreedingStatus = "in_progress"
	BreedingStatusConfirmed  BreedingStatus = "confirmed"
	BreedingStatusCompleted  BreedingStatus = "completed"
	BreedingStatusFailed     BreedingStatus = "failed"
)

type Breeding struct {
	Base
	FarmID            uuid.UUID      `json:"farm_id" db:"farm_id"`
	MotherID          uuid.UUID      `json:"mother_id" db:"mother_id"`
	FatherID          *uuid.UUID     `json:"father_id,omitempty" db:"father_id"`
	Status            BreedingStatus `json:"status" db:"status"`
	BreedingDate      time.Time      `json:"breeding_date" db:"breeding_date"`
	ExpectedBirthDate *time.Time     `json:"expected_birth_date,omitempty" db:"expected_birth_date"`
}
