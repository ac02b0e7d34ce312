package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Base
	FarmID     uuid.UUID  `json:"farm_id" db:"farm_id"`
	Name       string     `json:"name" db:"name"`
	Type       string     `json:"type" db:"type"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
}
