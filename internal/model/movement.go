package model

import (
	"time"

	"github.com/google/uuid"
)

type TemporaryMovementType string

const (
	TemporaryMovementQuarantine   TemporaryMovementType = "quarantine"
	TemporaryMovementPension      TemporaryMovementType = "pension"
	TemporaryMovementTranshumance TemporaryMovementType = "transhumance"
)

// Movement records animals leaving or entering the farm. Temporary
// movements carry an expected return date; ReturnDate stays nil until the
// animals actually come back.
type Movement struct {
	Base
	FarmID             uuid.UUID             `json:"farm_id" db:"farm_id"`
	Destination        string                `json:"destination" db:"destination"`
	IsTemporary        bool                  `json:"is_temporary" db:"is_temporary"`
	TemporaryType      TemporaryMovementType `json:"temporary_type,omitempty" db:"temporary_type"`
	MovedAt            time.Time             `json:"moved_at" db:"moved_at"`
	ExpectedReturnDate *time.Time            `json:"expected_return_date,omitempty" db:"expected_return_date"`
	ReturnDate         *time.Time            `json:"return_date,omitempty" db:"return_date"`

	// AnimalIDs is loaded from the movement_animals join table
	AnimalIDs []uuid.UUID `json:"animal_ids" db:"-"`
}
