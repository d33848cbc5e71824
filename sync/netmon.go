package sync

import (
	"context"
	"sync"
	"time"

	"github.com/heronix/teacherdesk/core"
)

type (
	// Probe is any backend client that can report reachability.
	Probe interface {
		Ping(ctx context.Context) error
	}

	BackendStatus struct {
		Name      string    `json:"name"`
		Online    bool      `json:"online"`
		CheckedAt time.Time `json:"checked_at"` // UTC
	}

	namedProbe struct {
		name  string
		probe Probe
	}

	// NetworkMonitor probes every registered backend on a fixed interval and
	// keeps the latest per-backend status snapshot.
	NetworkMonitor struct {
		probes   []namedProbe
		interval time.Duration
		log      core.Logger

		mu       sync.RWMutex
		statuses map[string]BackendStatus
	}
)

func NewNetworkMonitor(interval time.Duration, log core.Logger) *NetworkMonitor {
	return &NetworkMonitor{
		interval: interval,
		log:      log,
		statuses: make(map[string]BackendStatus),
	}
}

// Watch registers a backend. Not safe to call after Start.
func (m *NetworkMonitor) Watch(name string, probe Probe) {
	m.probes = append(m.probes, namedProbe{name: name, probe: probe})
}

func (m *NetworkMonitor) Start(ctx context.Context) {
	go func() {
		m.CheckNow(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CheckNow(ctx)
			}
		}
	}()
}

// CheckNow probes every backend once. Each backend is checked independently;
// a failing probe only flips its own status.
func (m *NetworkMonitor) CheckNow(ctx context.Context) {
	for _, np := range m.probes {
		err := np.probe.Ping(ctx)
		if err != nil && ctx.Err() != nil {
			return // shutting down, statuses would be noise
		}
		m.mu.Lock()
		m.statuses[np.name] = BackendStatus{
			Name:      np.name,
			Online:    err == nil,
			CheckedAt: time.Now().UTC(),
		}
		m.mu.Unlock()
	}
}

// Statuses returns the latest snapshot in registration order.
func (m *NetworkMonitor) Statuses() []BackendStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BackendStatus, 0, len(m.probes))
	for _, np := range m.probes {
		if st, ok := m.statuses[np.name]; ok {
			out = append(out, st)
		}
	}
	return out
}

// Online reports whether every watched backend was reachable on the last
// check. False before the first check completes.
func (m *NetworkMonitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.statuses) < len(m.probes) {
		return false
	}
	for _, st := range m.statuses {
		if !st.Online {
			return false
		}
	}
	return true
}
