package model

import (
	"time"

	"github.com/google/uuid"
)

type AnimalStatus string

const (
	AnimalStatusAlive AnimalStatus = "alive"
	AnimalStatusDead  AnimalStatus = "dead"
	AnimalStatusSold  AnimalStatus = "sold"
)

type Animal struct {
	Base
	FarmID         uuid.UUID    `json:"farm_id" db:"farm_id"`
	LotID          *uuid.UUID   `json:"lot_id,omitempty" db:"lot_id"`
	Name           string       `json:"name" db:"name"`
	EID            string       `json:"eid" db:"eid"`
	OfficialNumber string       `json:"official_number" db:"official_number"`
	Sex            string       `json:"sex" db:"sex"`
	Breed          string       `json:"breed" db:"breed"`
	BirthDate      *time.Time   `json:"birth_date,omitempty" db:"birth_date"`
	Status         AnimalStatus `json:"status" db:"status"`
}

// HasIdentifier reports whether the animal carries at least one of the
// two official identifiers (electronic tag or official number)
func (a *Animal) HasIdentifier() bool {
	return a.EID != "" || a.OfficialNumber != ""
}

// AnimalFilters narrows animal listings
type AnimalFilters struct {
	Status     AnimalStatus `json:"status" form:"status"`
	// LotID is parsed by the handler, query binding cannot fill a UUID
	LotID      *uuid.UUID   `json:"lot_id" form:"-"`
	SearchTerm string       `json:"search_term" form:"search_term"`
	Pagination
}
