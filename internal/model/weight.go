package model

import (
	"time"

	"github.com/google/uuid"
)

type Weight struct {
	Base
	FarmID    uuid.UUID `json:"farm_id" db:"farm_id"`
	AnimalID  uuid.UUID `json:"animal_id" db:"animal_id"`
	WeighedAt time.Time `json:"weighed_at" db:"weighed_at"`
	WeightKg  float64   `json:"weight_kg" db:"weight_kg"`
}
