package device

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core"
)

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

type fakeGateway struct {
	devices map[string]Device
	calls   int // transition calls that reached the backend
}

func newFakeGateway(devices ...Device) *fakeGateway {
	gw := &fakeGateway{devices: make(map[string]Device)}
	for _, d := range devices {
		gw.devices[d.ID] = d
	}
	return gw
}

func (gw *fakeGateway) QueryDevices(_ context.Context) ([]Device, error) {
	devices := make([]Device, 0, len(gw.devices))
	for _, d := range gw.devices {
		devices = append(devices, d)
	}
	return devices, nil
}

func (gw *fakeGateway) GetDevice(_ context.Context, id string) (Device, error) {
	if d, ok := gw.devices[id]; ok {
		return d, nil
	}
	return Device{}, ErrNotFound
}

func (gw *fakeGateway) ApproveDevice(_ context.Context, id, studentID string) (Device, error) {
	return gw.set(id, StatusApproved, func(d *Device) { d.StudentID = null.StringFrom(studentID) })
}

func (gw *fakeGateway) RejectDevice(_ context.Context, id, reason string) (Device, error) {
	return gw.set(id, StatusRejected, func(d *Device) { d.Reason = null.StringFrom(reason) })
}

func (gw *fakeGateway) RevokeDevice(_ context.Context, id, reason string) (Device, error) {
	return gw.set(id, StatusRevoked, func(d *Device) { d.Reason = null.StringFrom(reason) })
}

func (gw *fakeGateway) set(id string, st Status, fn func(*Device)) (Device, error) {
	gw.calls++
	d, ok := gw.devices[id]
	if !ok {
		return Device{}, ErrNotFound
	}
	d.Status = st
	fn(&d)
	gw.devices[id] = d
	return d, nil
}

func Test_Service_Approve(t *testing.T) {
	gw := newFakeGateway(Device{ID: "dev-1", Status: StatusPending})
	svc := NewService(gw, newTestValidator(t), core.NopLogger{})
	ctx := context.Background()

	d, err := svc.Approve(ctx, Approval{DeviceID: "dev-1", StudentID: "stu-1"})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	assert.Equal(t, StatusApproved, d.Status)
	assert.Equal(t, "stu-1", d.StudentID.String)
}

func Test_Service_Approve_emptyStudentID(t *testing.T) {
	gw := newFakeGateway(Device{ID: "dev-1", Status: StatusPending})
	svc := NewService(gw, newTestValidator(t), core.NopLogger{})

	_, err := svc.Approve(context.Background(), Approval{DeviceID: "dev-1", StudentID: "  "})
	assert.Error(t, err)
	assert.Zero(t, gw.calls) // the dialog stays open; nothing was sent
}

func Test_Service_transitionGates(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		call    func(*Service, context.Context) (Device, error)
		want    Status
		wantErr bool
	}{
		{
			name: "approve pending", from: StatusPending, want: StatusApproved,
			call: func(svc *Service, ctx context.Context) (Device, error) {
				return svc.Approve(ctx, Approval{DeviceID: "dev-1", StudentID: "stu-1"})
			},
		},
		{
			name: "reject pending", from: StatusPending, want: StatusRejected,
			call: func(svc *Service, ctx context.Context) (Device, error) {
				return svc.Reject(ctx, Rejection{DeviceID: "dev-1", Reason: "not school property"})
			},
		},
		{
			name: "revoke approved", from: StatusApproved, want: StatusRevoked,
			call: func(svc *Service, ctx context.Context) (Device, error) {
				return svc.Revoke(ctx, Revocation{DeviceID: "dev-1", Reason: "policy violation"})
			},
		},
		{
			name: "revoke pending", from: StatusPending, wantErr: true,
			call: func(svc *Service, ctx context.Context) (Device, error) {
				return svc.Revoke(ctx, Revocation{DeviceID: "dev-1", Reason: "nope"})
			},
		},
		{
			name: "reject approved", from: StatusApproved, wantErr: true,
			call: func(svc *Service, ctx context.Context) (Device, error) {
				return svc.Reject(ctx, Rejection{DeviceID: "dev-1", Reason: "nope"})
			},
		},
		{
			name: "approve revoked", from: StatusRevoked, wantErr: true,
			call: func(svc *Service, ctx context.Context) (Device, error) {
				return svc.Approve(ctx, Approval{DeviceID: "dev-1", StudentID: "stu-1"})
			},
		},
		{
			name: "reject rejected", from: StatusRejected, wantErr: true,
			call: func(svc *Service, ctx context.Context) (Device, error) {
				return svc.Reject(ctx, Rejection{DeviceID: "dev-1", Reason: "again"})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway(Device{ID: "dev-1", Status: tt.from})
			svc := NewService(gw, newTestValidator(t), core.NopLogger{})

			d, err := tt.call(svc, context.Background())
			if tt.wantErr {
				var vErr *core.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Zero(t, gw.calls)
				return
			}
			if err != nil {
				t.Fatalf("transition error = %v", err)
			}
			assert.Equal(t, tt.want, d.Status)
		})
	}
}

func Test_Service_unknownDevice(t *testing.T) {
	svc := NewService(newFakeGateway(), newTestValidator(t), core.NopLogger{})

	_, err := svc.Approve(context.Background(), Approval{DeviceID: "ghost", StudentID: "stu-1"})
	assert.ErrorIs(t, err, ErrNotFound)
}
