package model

type Farm struct {
	Base
	Name     string `json:"name" db:"name"`
	Country  string `json:"country" db:"country"`
	Timezone string `json:"timezone" db:"timezone"`
	IsActive bool   `json:"is_active" db:"is_active"`
}
