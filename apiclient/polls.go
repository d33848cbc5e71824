package apiclient

import (
	"context"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/poll"
)

// PollClient talks to the poll backend.
type PollClient struct {
	*client
}

var _ poll.Gateway = (*PollClient)(nil)

func NewPollClient(conf *core.Config, token TokenFunc) *PollClient {
	return &PollClient{newClient("polls", conf.Backends.Polls, conf.Backends.Timeout, token)}
}

func (c *PollClient) CreatePoll(ctx context.Context, p poll.Poll) (poll.Poll, error) {
	var created poll.Poll
	if err := c.post(ctx, "/v1/polls", p, &created); err != nil {
		return poll.Poll{}, err
	}
	return created, nil
}

func (c *PollClient) QueryPolls(ctx context.Context) ([]poll.Poll, error) {
	var res struct {
		Polls []poll.Poll `json:"polls"`
	}
	if err := c.get(ctx, "/v1/polls", &res); err != nil {
		return nil, err
	}
	return res.Polls, nil
}

func (c *PollClient) GetPoll(ctx context.Context, id string) (poll.Poll, error) {
	var p poll.Poll
	if err := c.get(ctx, "/v1/polls/"+id, &p); err != nil {
		return poll.Poll{}, c.pollErr(err)
	}
	return p, nil
}

func (c *PollClient) UpdatePollStatus(ctx context.Context, id string, st poll.Status) (poll.Poll, error) {
	var p poll.Poll
	if err := c.put(ctx, "/v1/polls/"+id+"/status", map[string]string{"status": string(st)}, &p); err != nil {
		return poll.Poll{}, c.pollErr(err)
	}
	return p, nil
}

func (c *PollClient) DeletePoll(ctx context.Context, id string) error {
	return c.pollErr(c.delete(ctx, "/v1/polls/"+id))
}

func (c *PollClient) SubmitResponse(ctx context.Context, resp poll.Response) error {
	return c.pollErr(c.post(ctx, "/v1/polls/"+resp.PollID+"/responses", resp, nil))
}

func (c *PollClient) GetResults(ctx context.Context, id string) (poll.Results, error) {
	var res poll.Results
	if err := c.get(ctx, "/v1/polls/"+id+"/results", &res); err != nil {
		return poll.Results{}, c.pollErr(err)
	}
	return res, nil
}

func (c *PollClient) pollErr(err error) error {
	if isNotFound(err) {
		return poll.ErrNotFound
	}
	return err
}
