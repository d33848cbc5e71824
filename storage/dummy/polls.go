// Package dummygw provides in-memory stand-ins for the remote backends and
// the local store, used by tests and by `console -demo`.
package dummygw

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core/poll"
)

type PollGateway struct {
	mu      sync.RWMutex
	pkCount int
	polls   map[string]*poll.Poll
	counts  map[string]map[string]map[string]int // pollID -> questionID -> option -> count
	totals  map[string]int                       // pollID -> responses

	// Unavailable makes every call fail as if the backend were unreachable.
	Unavailable bool
}

var _ poll.Gateway = (*PollGateway)(nil)

func NewPollGateway() *PollGateway {
	return &PollGateway{
		polls:  make(map[string]*poll.Poll),
		counts: make(map[string]map[string]map[string]int),
		totals: make(map[string]int),
	}
}

func (gw *PollGateway) CreatePoll(_ context.Context, p poll.Poll) (poll.Poll, error) {
	if gw.Unavailable {
		return poll.Poll{}, errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()

	gw.pkCount++
	p.ID = "poll-" + strconv.Itoa(gw.pkCount)
	gw.polls[p.ID] = &p
	gw.counts[p.ID] = make(map[string]map[string]int)
	for _, q := range p.Questions {
		opts := make(map[string]int, len(q.Options))
		for _, o := range q.Options {
			opts[o] = 0
		}
		gw.counts[p.ID][q.ID] = opts
	}
	return p, nil
}

func (gw *PollGateway) QueryPolls(_ context.Context) ([]poll.Poll, error) {
	if gw.Unavailable {
		return nil, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	polls := make([]poll.Poll, 0, len(gw.polls))
	for _, p := range gw.polls {
		polls = append(polls, *p)
	}
	return polls, nil
}

func (gw *PollGateway) GetPoll(_ context.Context, id string) (poll.Poll, error) {
	if gw.Unavailable {
		return poll.Poll{}, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	if p, ok := gw.polls[id]; ok {
		return *p, nil
	}
	return poll.Poll{}, poll.ErrNotFound
}

func (gw *PollGateway) UpdatePollStatus(_ context.Context, id string, st poll.Status) (poll.Poll, error) {
	if gw.Unavailable {
		return poll.Poll{}, errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()

	p, ok := gw.polls[id]
	if !ok {
		return poll.Poll{}, poll.ErrNotFound
	}
	p.Status = st
	now := time.Now().UTC()
	switch st {
	case poll.StatusPublished:
		p.PublishedAt = null.TimeFrom(now)
	case poll.StatusClosed:
		p.ClosedAt = null.TimeFrom(now)
	}
	return *p, nil
}

func (gw *PollGateway) DeletePoll(_ context.Context, id string) error {
	if gw.Unavailable {
		return errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()

	delete(gw.polls, id)
	delete(gw.counts, id)
	delete(gw.totals, id)
	return nil
}

func (gw *PollGateway) SubmitResponse(_ context.Context, resp poll.Response) (err error) {
	if gw.Unavailable {
		return errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()

	p, ok := gw.polls[resp.PollID]
	if !ok {
		return poll.ErrNotFound
	}
	if p.Status != poll.StatusPublished {
		return poll.ErrNotOpen
	}
	for _, ans := range resp.Answers {
		for _, sel := range ans.Selected {
			if _, ok := gw.counts[resp.PollID][ans.QuestionID]; ok {
				gw.counts[resp.PollID][ans.QuestionID][sel]++
			}
		}
	}
	gw.totals[resp.PollID]++
	return nil
}

func (gw *PollGateway) GetResults(_ context.Context, id string) (poll.Results, error) {
	if gw.Unavailable {
		return poll.Results{}, errUnavailable
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	p, ok := gw.polls[id]
	if !ok {
		return poll.Results{}, poll.ErrNotFound
	}

	res := poll.Results{PollID: id, Total: gw.totals[id]}
	for _, q := range p.Questions {
		qr := poll.QuestionResults{QuestionID: q.ID, Text: q.Text}
		for _, o := range q.Options {
			qr.Counts = append(qr.Counts, poll.OptionCount{Option: o, Count: gw.counts[id][q.ID][o]})
		}
		res.Questions = append(res.Questions, qr)
	}
	return res, nil
}
