package dismissal

import (
	"context"

	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

var (
	// errors
	ErrNotFound        = errors.New("dismissal event not found")
	ErrAlreadyDeparted = errors.New("student already marked departed")
)

type (
	// Gateway talks to the dismissal backend.
	Gateway interface {
		QueryEvents(ctx context.Context) ([]Event, error)
		GetStats(ctx context.Context) (Stats, error)
		MarkDeparted(ctx context.Context, eventID string) (Event, error)
	}

	Service struct {
		gw            Gateway
		busCapacities map[string]int
		log           core.Logger
	}
)

func NewService(gw Gateway, busCapacities map[string]int, log core.Logger) *Service {
	return &Service{gw: gw, busCapacities: busCapacities, log: log}
}

// Board fetches the full dismissal snapshot. The poller replaces the
// displayed board wholesale with the result.
func (svc *Service) Board(ctx context.Context) ([]Event, error) {
	return svc.gw.QueryEvents(ctx)
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	return svc.gw.GetStats(ctx)
}

// BusLoads sums today's pending riders per bus against seat capacities.
func (svc *Service) BusLoads(ctx context.Context) ([]BusLoad, error) {
	events, err := svc.gw.QueryEvents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching dismissal events")
	}
	return LoadSummary(events, svc.busCapacities), nil
}

// MarkDeparted requests PENDING -> DEPARTED for one event.
func (svc *Service) MarkDeparted(ctx context.Context, eventID string) (Event, error) {
	ev, err := svc.gw.QueryEvents(ctx)
	if err != nil {
		return Event{}, errors.Wrap(err, "fetching dismissal events")
	}
	for _, e := range ev {
		if e.ID != eventID {
			continue
		}
		if e.Status == StatusDeparted {
			return Event{}, ErrAlreadyDeparted
		}
		return svc.gw.MarkDeparted(ctx, eventID)
	}
	return Event{}, ErrNotFound
}
