package device

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core"
)

// Registration lifecycle. PENDING -> APPROVED | REJECTED; APPROVED -> REVOKED.
// A revoked device must re-register to re-enter the flow.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusRevoked  Status = "REVOKED"
)

var statusTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusRevoked},
	StatusRejected: {},
	StatusRevoked:  {},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range statusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Device is a student device registration as reported by the admin backend.
type Device struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"` // LAPTOP, TABLET, PHONE...
	OS           string      `json:"os"`
	Status       Status      `json:"status"`
	StudentID    null.String `json:"student_id,omitempty"` // set on approval
	Reason       null.String `json:"reason,omitempty"`     // set on rejection/revocation
	RegisteredAt time.Time   `json:"registered_at"`        // UTC
	UpdatedAt    time.Time   `json:"updated_at"`           // UTC
}

// Approval assigns a pending device to a student. An empty student ID is a
// validation error; the dialog is not submitted.
type Approval struct {
	DeviceID  string `json:"device_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

func (a *Approval) Validate(validate *validator.Validate) error {
	a.StudentID = core.CleanString(a.StudentID)
	return validate.Struct(a)
}

type Rejection struct {
	DeviceID string `json:"device_id" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

func (r *Rejection) Validate(validate *validator.Validate) error {
	r.Reason = core.CleanString(r.Reason)
	return validate.Struct(r)
}

type Revocation struct {
	DeviceID string `json:"device_id" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

func (r *Revocation) Validate(validate *validator.Validate) error {
	r.Reason = core.CleanString(r.Reason)
	return validate.Struct(r)
}
