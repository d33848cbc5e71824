package dummygw

import (
	"context"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core/device"
)

type DeviceGateway struct {
	mu      sync.RWMutex
	devices map[string]*device.Device

	Unavailable bool
}

var _ device.Gateway = (*DeviceGateway)(nil)

func NewDeviceGateway(seed ...device.Device) *DeviceGateway {
	gw := &DeviceGateway{devices: make(map[string]*device.Device)}
	gw.Seed(seed...)
	return gw
}

func (gw *DeviceGateway) Seed(devices ...device.Device) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	for i := range devices {
		d := devices[i]
		gw.devices[d.ID] = &d
	}
}

func (gw *DeviceGateway) QueryDevices(_ context.Context) ([]device.Device, error) {
	if gw.Unavailable {
		return nil, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	devices := make([]device.Device, 0, len(gw.devices))
	for _, d := range gw.devices {
		devices = append(devices, *d)
	}
	return devices, nil
}

func (gw *DeviceGateway) GetDevice(_ context.Context, id string) (device.Device, error) {
	if gw.Unavailable {
		return device.Device{}, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	if d, ok := gw.devices[id]; ok {
		return *d, nil
	}
	return device.Device{}, device.ErrNotFound
}

func (gw *DeviceGateway) ApproveDevice(_ context.Context, id, studentID string) (device.Device, error) {
	if gw.Unavailable {
		return device.Device{}, errUnavailable
	}
	return gw.update(id, func(d *device.Device) {
		d.Status = device.StatusApproved
		d.StudentID = null.StringFrom(studentID)
		d.UpdatedAt = time.Now().UTC()
	})
}

func (gw *DeviceGateway) RejectDevice(_ context.Context, id, reason string) (device.Device, error) {
	if gw.Unavailable {
		return device.Device{}, errUnavailable
	}
	return gw.update(id, func(d *device.Device) {
		d.Status = device.StatusRejected
		d.Reason = null.StringFrom(reason)
		d.UpdatedAt = time.Now().UTC()
	})
}

func (gw *DeviceGateway) RevokeDevice(_ context.Context, id, reason string) (device.Device, error) {
	if gw.Unavailable {
		return device.Device{}, errUnavailable
	}
	return gw.update(id, func(d *device.Device) {
		d.Status = device.StatusRevoked
		d.Reason = null.StringFrom(reason)
		d.UpdatedAt = time.Now().UTC()
	})
}

func (gw *DeviceGateway) update(id string, fn func(*device.Device)) (device.Device, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	d, ok := gw.devices[id]
	if !ok {
		return device.Device{}, device.ErrNotFound
	}
	fn(d)
	return *d, nil
}
