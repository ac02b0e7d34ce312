package model

import (
	"time"

	"github.com/google/uuid"
)

type AlertCategory string

const (
	AlertCategoryVaccination    AlertCategory = "vaccination"
	AlertCategoryTreatment      AlertCategory = "treatment"
	AlertCategoryNutrition      AlertCategory = "nutrition"
	AlertCategoryReproduction   AlertCategory = "reproduction"
	AlertCategoryHealth         AlertCategory = "health"
	AlertCategoryAdministrative AlertCategory = "administrative"
)

// Template codes. One code identifies one hard-coded rule.
const (
	AlertCodeVaccinationDue     = "VACC_DUE"
	AlertCodeVaccinationOverdue = "VACC_OVERDUE"
	AlertCodeWithdrawalActive   = "WITHDRAWAL_ACTIVE"
	AlertCodeWithdrawalEnding   = "WITHDRAWAL_ENDING"
	AlertCodeWeighingDue        = "WEIGHING_DUE"
	AlertCodeWeightLoss         = "WEIGHT_LOSS"
	AlertCodeGMQCritical        = "GMQ_CRITICAL"
	AlertCodeGMQLow             = "GMQ_LOW"
	AlertCodeCalvingSoon        = "CALVING_SOON"
	AlertCodePregnancyCheck     = "PREGNANCY_CHECK"
	AlertCodeQuarantineEnding   = "QUARANTINE_ENDING"
	AlertCodeDocumentExpiring   = "DOC_EXPIRING"
	AlertCodeIdentifierMissing  = "ID_MISSING"
)

type AlertStatus string

const (
	AlertStatusPending   AlertStatus = "pending"
	AlertStatusRead      AlertStatus = "read"
	AlertStatusDismissed AlertStatus = "dismissed"
	AlertStatusResolved  AlertStatus = "resolved"
)

// AlertTemplate identifies a rule type. Templates are seeded globally and
// read-only to the generation engine.
type AlertTemplate struct {
	Base
	Code     string        `json:"code" db:"code"`
	Category AlertCategory `json:"category" db:"category"`
	Priority string        `json:"priority" db:"priority"`
	IsActive bool          `json:"is_active" db:"is_active"`
}

// AlertPreference links a farm to a template. A template with no active
// preference for a farm is skipped entirely by its generator.
type AlertPreference struct {
	Base
	FarmID       uuid.UUID `json:"farm_id" db:"farm_id"`
	TemplateID   uuid.UUID `json:"template_id" db:"template_id"`
	ReminderDays *int      `json:"reminder_days,omitempty" db:"reminder_days"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// FarmAlertPreference is the preference read model: an active preference
// joined with its active template.
type FarmAlertPreference struct {
	AlertPreference
	Template AlertTemplate `json:"template"`
}

// EffectiveReminderDays returns the preference override when present,
// falling back to the supplied category default.
func (p *FarmAlertPreference) EffectiveReminderDays(categoryDefault int) int {
	if p.ReminderDays != nil {
		return *p.ReminderDays
	}
	return categoryDefault
}

// Alert is a persisted alert. The engine creates alerts in pending status
// and transitions them to resolved; read and dismissed are user actions
// handled by a separate service.
type Alert struct {
	Base
	FarmID       uuid.UUID   `json:"farm_id" db:"farm_id"`
	TemplateID   uuid.UUID   `json:"template_id" db:"template_id"`
	TemplateCode string      `json:"template_code" db:"template_code"`
	PreferenceID *uuid.UUID  `json:"preference_id,omitempty" db:"preference_id"`
	AnimalID     *uuid.UUID  `json:"animal_id,omitempty" db:"animal_id"`
	LotID        *uuid.UUID  `json:"lot_id,omitempty" db:"lot_id"`
	TreatmentID  *uuid.UUID  `json:"treatment_id,omitempty" db:"treatment_id"`
	BreedingID   *uuid.UUID  `json:"breeding_id,omitempty" db:"breeding_id"`
	DocumentID   *uuid.UUID  `json:"document_id,omitempty" db:"document_id"`
	UniqueKey    string      `json:"unique_key" db:"unique_key"`
	Status       AlertStatus `json:"status" db:"status"`
	DueDate      *time.Time  `json:"due_date,omitempty" db:"due_date"`
	ExpiresAt    *time.Time  `json:"expires_at,omitempty" db:"expires_at"`
	TriggeredAt  time.Time   `json:"triggered_at" db:"triggered_at"`
	ReadAt       *time.Time  `json:"read_at,omitempty" db:"read_at"`
	ResolvedAt   *time.Time  `json:"resolved_at,omitempty" db:"resolved_at"`
	DismissedAt  *time.Time  `json:"dismissed_at,omitempty" db:"dismissed_at"`
	Version      int         `json:"version" db:"version"`
	Metadata     JSONMap     `json:"metadata" db:"metadata"`
}

// IsLive reports whether the alert still participates in duplicate
// detection. Dismissed alerts stay live so that a user's dismissal
// suppresses regeneration of the same fact.
func (a *Alert) IsLive() bool {
	switch a.Status {
	case AlertStatusPending, AlertStatusRead, AlertStatusDismissed:
		return true
	default:
		return false
	}
}

// CandidateAlert is a generator's belief that an alert should currently
// exist. Candidates are ephemeral; reconciliation diffs them against the
// persisted set by UniqueKey.
type CandidateAlert struct {
	TemplateID   uuid.UUID
	TemplateCode string
	PreferenceID *uuid.UUID
	AnimalID     *uuid.UUID
	LotID        *uuid.UUID
	TreatmentID  *uuid.UUID
	BreedingID   *uuid.UUID
	DocumentID   *uuid.UUID
	DueDate      *time.Time
	ExpiresAt    *time.Time
	Metadata     JSONMap
	UniqueKey    string
}

// GenerationSummary is returned by a full generation+reconciliation pass
type GenerationSummary struct {
	FarmID      uuid.UUID       `json:"farm_id"`
	Created     int             `json:"created"`
	Resolved    int             `json:"resolved"`
	Unchanged   int             `json:"unchanged"`
	CreatedIDs  []uuid.UUID     `json:"created_ids"`
	ResolvedIDs []uuid.UUID     `json:"resolved_ids"`
	Warnings    []AlertCategory `json:"warnings,omitempty"`
	Duration    time.Duration   `json:"duration_ms"`
}

// AlertFilters narrows alert listings
type AlertFilters struct {
	Status   AlertStatus   `json:"status" form:"status"`
	Category AlertCategory `json:"category" form:"category"`
	// AnimalID is parsed by the handler, query binding cannot fill a UUID
	AnimalID *uuid.UUID    `json:"animal_id" form:"-"`
	Pagination
}
