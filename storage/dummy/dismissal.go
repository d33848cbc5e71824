package dummygw

import (
	"context"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core/dismissal"
)

type DismissalGateway struct {
	mu     sync.RWMutex
	events []dismissal.Event

	Unavailable bool
}

var _ dismissal.Gateway = (*DismissalGateway)(nil)

func NewDismissalGateway(seed ...dismissal.Event) *DismissalGateway {
	return &DismissalGateway{events: seed}
}

func (gw *DismissalGateway) Seed(events ...dismissal.Event) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.events = append(gw.events, events...)
}

func (gw *DismissalGateway) QueryEvents(_ context.Context) ([]dismissal.Event, error) {
	if gw.Unavailable {
		return nil, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	events := make([]dismissal.Event, len(gw.events))
	copy(events, gw.events)
	return events, nil
}

func (gw *DismissalGateway) GetStats(_ context.Context) (dismissal.Stats, error) {
	if gw.Unavailable {
		return dismissal.Stats{}, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	stats := dismissal.Stats{ByType: make(map[dismissal.EventType]int)}
	for _, ev := range gw.events {
		stats.Total++
		stats.ByType[ev.Type]++
		if ev.Status == dismissal.StatusDeparted {
			stats.Departed++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

func (gw *DismissalGateway) MarkDeparted(_ context.Context, id string) (dismissal.Event, error) {
	if gw.Unavailable {
		return dismissal.Event{}, errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()

	for i := range gw.events {
		if gw.events[i].ID != id {
			continue
		}
		gw.events[i].Status = dismissal.StatusDeparted
		gw.events[i].DepartedAt = null.TimeFrom(time.Now().UTC())
		return gw.events[i], nil
	}
	return dismissal.Event{}, dismissal.ErrNotFound
}
