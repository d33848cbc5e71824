package discipline

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/heronix/teacherdesk/core"
)

type Severity string

const (
	SeverityMinor    Severity = "MINOR"
	SeverityModerate Severity = "MODERATE"
	SeverityMajor    Severity = "MAJOR"
	SeveritySevere   Severity = "SEVERE"
)

// Incident categories recognized by the admin backend.
const (
	CategoryDisruption     = "DISRUPTION"
	CategoryDisrespect     = "DISRESPECT"
	CategoryTardiness      = "TARDINESS"
	CategoryFighting       = "FIGHTING"
	CategoryPropertyDamage = "PROPERTY_DAMAGE"
	CategoryTechMisuse     = "TECHNOLOGY_MISUSE"
	CategoryOther          = "OTHER"
)

// NewIncident is the referral form. Submit-once, fire-and-forget: there is no
// client-side lifecycle after submission.
type NewIncident struct {
	StudentID    string   `json:"student_id" validate:"required"`
	Category     string   `json:"category" validate:"required,oneof=DISRUPTION DISRESPECT TARDINESS FIGHTING PROPERTY_DAMAGE TECHNOLOGY_MISUSE OTHER"`
	Severity     Severity `json:"severity" validate:"required,oneof=MINOR MODERATE MAJOR SEVERE"`
	Location     string   `json:"location" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Intervention string   `json:"intervention"`

	ParentContacted       bool `json:"parent_contacted"`
	AdminReferralRequired bool `json:"admin_referral_required"`
}

func (ni *NewIncident) Validate(validate *validator.Validate) error {
	ni.StudentID = core.CleanString(ni.StudentID)
	ni.Location = core.CleanString(ni.Location)
	ni.Description = core.CleanString(ni.Description)
	ni.Intervention = core.CleanString(ni.Intervention)
	return validate.Struct(ni)
}

type Incident struct {
	ID           string   `json:"id"`
	StudentID    string   `json:"student_id"`
	Category     string   `json:"category"`
	Severity     Severity `json:"severity"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Intervention string   `json:"intervention,omitempty"`

	ParentContacted       bool `json:"parent_contacted"`
	AdminReferralRequired bool `json:"admin_referral_required"`

	ReportedBy string    `json:"reported_by"`
	OccurredAt time.Time `json:"occurred_at"` // UTC
}
