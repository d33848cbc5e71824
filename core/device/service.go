package device

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

var (
	// errors
	ErrNotFound          = errors.New("device not found")
	ErrInvalidTransition = errors.New("invalid device status transition")
)

type (
	// Gateway talks to the admin backend, which owns device registrations.
	// All transitions are remote-authoritative.
	Gateway interface {
		QueryDevices(ctx context.Context) ([]Device, error)
		GetDevice(ctx context.Context, id string) (Device, error)
		ApproveDevice(ctx context.Context, id, studentID string) (Device, error)
		RejectDevice(ctx context.Context, id, reason string) (Device, error)
		RevokeDevice(ctx context.Context, id, reason string) (Device, error)
	}

	Service struct {
		gw       Gateway
		validate *validator.Validate
		log      core.Logger
	}
)

func NewService(gw Gateway, validate *validator.Validate, log core.Logger) *Service {
	return &Service{gw: gw, validate: validate, log: log}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Device, error) {
	return svc.gw.QueryDevices(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Device, error) {
	return svc.gw.GetDevice(ctx, id)
}

// Approve requests PENDING -> APPROVED. On failure the prior state stays
// displayed; the caller only refreshes its view from the returned device
// (optimistic-refresh, not optimistic-update).
func (svc *Service) Approve(ctx context.Context, a Approval) (Device, error) {
	if err := a.Validate(svc.validate); err != nil {
		return Device{}, err
	}
	if err := svc.checkTransition(ctx, a.DeviceID, StatusApproved); err != nil {
		return Device{}, err
	}
	return svc.gw.ApproveDevice(ctx, a.DeviceID, a.StudentID)
}

// Reject requests PENDING -> REJECTED.
func (svc *Service) Reject(ctx context.Context, r Rejection) (Device, error) {
	if err := r.Validate(svc.validate); err != nil {
		return Device{}, err
	}
	if err := svc.checkTransition(ctx, r.DeviceID, StatusRejected); err != nil {
		return Device{}, err
	}
	return svc.gw.RejectDevice(ctx, r.DeviceID, r.Reason)
}

// Revoke requests APPROVED -> REVOKED.
func (svc *Service) Revoke(ctx context.Context, r Revocation) (Device, error) {
	if err := r.Validate(svc.validate); err != nil {
		return Device{}, err
	}
	if err := svc.checkTransition(ctx, r.DeviceID, StatusRevoked); err != nil {
		return Device{}, err
	}
	return svc.gw.RevokeDevice(ctx, r.DeviceID, r.Reason)
}

func (svc *Service) checkTransition(ctx context.Context, id string, to Status) error {
	dev, err := svc.gw.GetDevice(ctx, id)
	if err != nil {
		return errors.Wrap(err, "fetching device")
	}
	if !dev.Status.CanTransition(to) {
		return core.NewValidationError(ErrInvalidTransition, core.FieldError{
			Field: "status",
			Error: string(dev.Status) + " cannot transition to " + string(to),
		})
	}
	return nil
}
