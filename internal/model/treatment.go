package model

import (
	"time"

	"github.com/google/uuid"
)

type TreatmentKind string

const (
	TreatmentKindVaccination TreatmentKind = "vaccination"
	TreatmentKindTreatment   TreatmentKind = "treatment"
)

type Treatment struct {
	Base
	FarmID                   uuid.UUID     `json:"farm_id" db:"farm_id"`
	AnimalID                 uuid.UUID     `json:"animal_id" db:"animal_id"`
	Kind                     TreatmentKind `json:"kind" db:"kind"`
	Product                  string        `json:"product" db:"product"`
	AdministeredAt           time.Time     `json:"administered_at" db:"administered_at"`
	NextDueDate              *time.Time    `json:"next_due_date,omitempty" db:"next_due_date"`
	WithdrawalEndDate        *time.Time    `json:"withdrawal_end_date,omitempty" db:"withdrawal_end_date"`
	ComputedWithdrawalMeatDate *time.Time  `json:"computed_withdrawal_meat_date,omitempty" db:"computed_withdrawal_meat_date"`
	ComputedWithdrawalMilkDate *time.Time  `json:"computed_withdrawal_milk_date,omitempty" db:"computed_withdrawal_milk_date"`
}

// WithdrawalEnd returns the latest of the explicit and computed withdrawal
// dates. The maximum is authoritative: an animal is under withdrawal until
// every constraint has lapsed. Returns nil when no withdrawal applies.
func (t *Treatment) WithdrawalEnd() *time.Time {
	var end *time.Time
	for _, d := range []*time.Time{t.WithdrawalEndDate, t.ComputedWithdrawalMeatDate, t.ComputedWithdrawalMilkDate} {
		if d == nil {
			continue
		}
		if end == nil || d.After(*end) {
			end = d
		}
	}
	return end
}
