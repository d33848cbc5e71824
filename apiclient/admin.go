package apiclient

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/device"
	"github.com/heronix/teacherdesk/core/discipline"
	"github.com/heronix/teacherdesk/core/schedule"
	"github.com/heronix/teacherdesk/core/student"
)

// AdminClient talks to the school administration backend: roster, schedules,
// device registrations and behavior referrals.
type AdminClient struct {
	*client
}

var (
	_ student.Gateway    = (*AdminClient)(nil)
	_ schedule.Gateway   = (*AdminClient)(nil)
	_ device.Gateway     = (*AdminClient)(nil)
	_ discipline.Gateway = (*AdminClient)(nil)
)

func NewAdminClient(conf *core.Config, token TokenFunc) *AdminClient {
	return &AdminClient{newClient("admin", conf.Backends.Admin, conf.Backends.Timeout, token)}
}

// Roster

func (c *AdminClient) FetchRoster(ctx context.Context) ([]student.RosterEntry, error) {
	var res struct {
		Students []student.RosterEntry `json:"students"`
	}
	if err := c.get(ctx, "/v1/students", &res); err != nil {
		return nil, err
	}
	return res.Students, nil
}

// Schedule

func (c *AdminClient) FetchSchedule(ctx context.Context, teacherID string) ([]schedule.Period, error) {
	var res struct {
		Periods []schedule.Period `json:"periods"`
	}
	if err := c.get(ctx, "/v1/teachers/"+teacherID+"/schedule", &res); err != nil {
		return nil, err
	}
	return res.Periods, nil
}

// Devices

type deviceDTO struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	OS           string      `json:"os"`
	Status       string      `json:"status"`
	StudentID    null.String `json:"student_id"`
	Reason       null.String `json:"reason"`
	RegisteredAt time.Time   `json:"registered_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (dto deviceDTO) toDevice() device.Device {
	return device.Device{
		ID:           dto.ID,
		Name:         dto.Name,
		Type:         dto.Type,
		OS:           dto.OS,
		Status:       device.Status(dto.Status),
		StudentID:    dto.StudentID,
		Reason:       dto.Reason,
		RegisteredAt: dto.RegisteredAt,
		UpdatedAt:    dto.UpdatedAt,
	}
}

func (c *AdminClient) QueryDevices(ctx context.Context) ([]device.Device, error) {
	var res struct {
		Devices []deviceDTO `json:"devices"`
	}
	if err := c.get(ctx, "/v1/devices", &res); err != nil {
		return nil, err
	}
	devices := make([]device.Device, 0, len(res.Devices))
	for _, dto := range res.Devices {
		devices = append(devices, dto.toDevice())
	}
	return devices, nil
}

func (c *AdminClient) GetDevice(ctx context.Context, id string) (device.Device, error) {
	var dto deviceDTO
	if err := c.get(ctx, "/v1/devices/"+id, &dto); err != nil {
		return device.Device{}, c.deviceErr(err)
	}
	return dto.toDevice(), nil
}

func (c *AdminClient) ApproveDevice(ctx context.Context, id, studentID string) (device.Device, error) {
	var dto deviceDTO
	err := c.post(ctx, "/v1/devices/"+id+"/approve", map[string]string{"student_id": studentID}, &dto)
	if err != nil {
		return device.Device{}, c.deviceErr(err)
	}
	return dto.toDevice(), nil
}

func (c *AdminClient) RejectDevice(ctx context.Context, id, reason string) (device.Device, error) {
	var dto deviceDTO
	err := c.post(ctx, "/v1/devices/"+id+"/reject", map[string]string{"reason": reason}, &dto)
	if err != nil {
		return device.Device{}, c.deviceErr(err)
	}
	return dto.toDevice(), nil
}

func (c *AdminClient) RevokeDevice(ctx context.Context, id, reason string) (device.Device, error) {
	var dto deviceDTO
	err := c.post(ctx, "/v1/devices/"+id+"/revoke", map[string]string{"reason": reason}, &dto)
	if err != nil {
		return device.Device{}, c.deviceErr(err)
	}
	return dto.toDevice(), nil
}

func (c *AdminClient) deviceErr(err error) error {
	if isNotFound(err) {
		return device.ErrNotFound
	}
	return err
}

// Discipline

func (c *AdminClient) SubmitIncident(ctx context.Context, inc discipline.Incident) error {
	return c.post(ctx, "/v1/behavior/incidents", inc, nil)
}
