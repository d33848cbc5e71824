package dummygw

import (
	"context"
	"sync"
	"time"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/discipline"
)

// Outbox is the in-memory stand-in for the local outbox, FIFO like the real
// one.
type Outbox struct {
	mu    sync.RWMutex
	items []core.OutboxItem
}

var _ core.Outbox = (*Outbox)(nil)

func NewOutbox() *Outbox { return &Outbox{} }

func (ob *Outbox) Enqueue(_ context.Context, item core.OutboxItem) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.items = append(ob.items, item)
	return nil
}

func (ob *Outbox) Pending(_ context.Context) ([]core.OutboxItem, error) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	items := make([]core.OutboxItem, len(ob.items))
	copy(items, ob.items)
	return items, nil
}

func (ob *Outbox) Count(_ context.Context) (int, error) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return len(ob.items), nil
}

func (ob *Outbox) MarkAttempt(_ context.Context, id string) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	for i := range ob.items {
		if ob.items[i].ID == id {
			ob.items[i].Attempts++
			break
		}
	}
	return nil
}

func (ob *Outbox) Delete(_ context.Context, id string) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	for i := range ob.items {
		if ob.items[i].ID == id {
			ob.items = append(ob.items[:i], ob.items[i+1:]...)
			break
		}
	}
	return nil
}

// DisciplineGateway is the in-memory stand-in for the incident endpoint.
type DisciplineGateway struct {
	mu        sync.RWMutex
	incidents []discipline.Incident

	Unavailable bool
}

var _ discipline.Gateway = (*DisciplineGateway)(nil)

func NewDisciplineGateway() *DisciplineGateway { return &DisciplineGateway{} }

func (gw *DisciplineGateway) SubmitIncident(_ context.Context, inc discipline.Incident) error {
	if gw.Unavailable {
		return errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.incidents = append(gw.incidents, inc)
	return nil
}

func (gw *DisciplineGateway) Incidents() []discipline.Incident {
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	incidents := make([]discipline.Incident, len(gw.incidents))
	copy(incidents, gw.incidents)
	return incidents
}

// SyncStateStore is the in-memory stand-in for the last-sync marker.
type SyncStateStore struct {
	mu   sync.RWMutex
	last time.Time
}

func NewSyncStateStore() *SyncStateStore { return &SyncStateStore{} }

func (store *SyncStateStore) LastSyncTime(_ context.Context) (time.Time, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.last, nil
}

func (store *SyncStateStore) SetLastSyncTime(_ context.Context, t time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.last = t
	return nil
}
