package apiclient

import (
	"context"

	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/dismissal"
)

// DismissalClient talks to the dismissal tracking backend.
type DismissalClient struct {
	*client
}

var _ dismissal.Gateway = (*DismissalClient)(nil)

func NewDismissalClient(conf *core.Config, token TokenFunc) *DismissalClient {
	return &DismissalClient{newClient("dismissal", conf.Backends.Dismissal, conf.Backends.Timeout, token)}
}

func (c *DismissalClient) QueryEvents(ctx context.Context) ([]dismissal.Event, error) {
	var res struct {
		Events []dismissal.Event `json:"events"`
	}
	if err := c.get(ctx, "/v1/dismissal/events", &res); err != nil {
		return nil, err
	}
	return res.Events, nil
}

func (c *DismissalClient) GetStats(ctx context.Context) (dismissal.Stats, error) {
	var stats dismissal.Stats
	if err := c.get(ctx, "/v1/dismissal/stats", &stats); err != nil {
		return dismissal.Stats{}, err
	}
	return stats, nil
}

func (c *DismissalClient) MarkDeparted(ctx context.Context, eventID string) (dismissal.Event, error) {
	var ev dismissal.Event
	err := c.post(ctx, "/v1/dismissal/events/"+eventID+"/depart", nil, &ev)
	if err != nil {
		if isNotFound(err) {
			return dismissal.Event{}, dismissal.ErrNotFound
		}
		return dismissal.Event{}, err
	}
	return ev, nil
}

// isNotFound reports whether an apiclient error maps to a missing resource.
func isNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
