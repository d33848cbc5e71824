package sync

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/heronix/teacherdesk/core"
)

type probeFunc func(ctx context.Context) error

func (f probeFunc) Ping(ctx context.Context) error { return f(ctx) }

func ok() probeFunc   { return func(context.Context) error { return nil } }
func down() probeFunc { return func(context.Context) error { return errors.New("refused") } }

func Test_NetworkMonitor_CheckNow(t *testing.T) {
	m := NewNetworkMonitor(time.Minute, core.NopLogger{})
	m.Watch("auth", ok())
	m.Watch("admin", down())
	m.Watch("polls", ok())

	assert.False(t, m.Online()) // nothing checked yet
	assert.Empty(t, m.Statuses())

	m.CheckNow(context.Background())

	assert.False(t, m.Online()) // admin is down
	statuses := m.Statuses()
	if assert.Len(t, statuses, 3) {
		// registration order
		assert.Equal(t, "auth", statuses[0].Name)
		assert.Equal(t, "admin", statuses[1].Name)
		assert.Equal(t, "polls", statuses[2].Name)

		assert.True(t, statuses[0].Online)
		assert.False(t, statuses[1].Online)
		assert.True(t, statuses[2].Online)
	}
}

func Test_NetworkMonitor_Online(t *testing.T) {
	m := NewNetworkMonitor(time.Minute, core.NopLogger{})
	m.Watch("auth", ok())
	m.Watch("polls", ok())

	m.CheckNow(context.Background())
	assert.True(t, m.Online())
}

func Test_NetworkMonitor_recovery(t *testing.T) {
	healthy := false
	m := NewNetworkMonitor(time.Minute, core.NopLogger{})
	m.Watch("auth", probeFunc(func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("refused")
	}))
	ctx := context.Background()

	m.CheckNow(ctx)
	assert.False(t, m.Online())

	healthy = true
	m.CheckNow(ctx)
	assert.True(t, m.Online())
}
