package poll

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heronix/teacherdesk/core"
)

// fakeGateway records calls and serves canned polls keyed by ID.
type fakeGateway struct {
	polls     map[string]Poll
	created   []Poll
	responses []Response
	updates   []Status
}

func newFakeGateway(polls ...Poll) *fakeGateway {
	gw := &fakeGateway{polls: make(map[string]Poll)}
	for _, p := range polls {
		gw.polls[p.ID] = p
	}
	return gw
}

func (gw *fakeGateway) CreatePoll(_ context.Context, p Poll) (Poll, error) {
	p.ID = "poll-1"
	gw.created = append(gw.created, p)
	gw.polls[p.ID] = p
	return p, nil
}

func (gw *fakeGateway) QueryPolls(_ context.Context) ([]Poll, error) {
	polls := make([]Poll, 0, len(gw.polls))
	for _, p := range gw.polls {
		polls = append(polls, p)
	}
	return polls, nil
}

func (gw *fakeGateway) GetPoll(_ context.Context, id string) (Poll, error) {
	if p, ok := gw.polls[id]; ok {
		return p, nil
	}
	return Poll{}, ErrNotFound
}

func (gw *fakeGateway) UpdatePollStatus(_ context.Context, id string, st Status) (Poll, error) {
	p, ok := gw.polls[id]
	if !ok {
		return Poll{}, ErrNotFound
	}
	p.Status = st
	gw.polls[id] = p
	gw.updates = append(gw.updates, st)
	return p, nil
}

func (gw *fakeGateway) DeletePoll(_ context.Context, id string) error {
	delete(gw.polls, id)
	return nil
}

func (gw *fakeGateway) SubmitResponse(_ context.Context, resp Response) error {
	gw.responses = append(gw.responses, resp)
	return nil
}

func (gw *fakeGateway) GetResults(_ context.Context, id string) (Results, error) {
	if _, ok := gw.polls[id]; !ok {
		return Results{}, ErrNotFound
	}
	return Results{
		PollID: id,
		Total:  1,
		Questions: []QuestionResults{
			{QuestionID: "q1", Counts: []OptionCount{{Option: "A", Count: 1}, {Option: "B", Count: 0}}},
		},
	}, nil
}

func Test_Service_Create(t *testing.T) {
	gw := newFakeGateway()
	svc := NewService(gw, newTestValidator(t), core.NopLogger{})
	ctx := context.Background()

	p, err := svc.Create(ctx, "t1001", NewPoll{
		Title:    "Lunch Survey",
		Audience: "STUDENTS",
		Questions: []NewQuestion{
			{Text: "Favorite lunch?", Type: MultipleChoice, Options: []string{"Pizza", "Tacos"}},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	assert.Equal(t, StatusDraft, p.Status)
	assert.Equal(t, "t1001", p.CreatedBy)
	assert.NotEmpty(t, p.Questions[0].ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func Test_Service_transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		call    func(*Service, context.Context, string) (Poll, error)
		want    Status
		wantErr bool
	}{
		{name: "publish draft", from: StatusDraft, call: (*Service).Publish, want: StatusPublished},
		{name: "close published", from: StatusPublished, call: (*Service).Close, want: StatusClosed},
		{name: "close draft", from: StatusDraft, call: (*Service).Close, wantErr: true},
		{name: "publish closed", from: StatusClosed, call: (*Service).Publish, wantErr: true},
		{name: "publish published", from: StatusPublished, call: (*Service).Publish, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway(Poll{ID: "poll-1", Title: "T", Status: tt.from})
			svc := NewService(gw, newTestValidator(t), core.NopLogger{})

			p, err := tt.call(svc, context.Background(), "poll-1")
			if tt.wantErr {
				var vErr *core.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Empty(t, gw.updates) // never reached the backend
				return
			}
			if err != nil {
				t.Fatalf("transition error = %v", err)
			}
			assert.Equal(t, tt.want, p.Status)
		})
	}
}

func Test_Service_SubmitResponse(t *testing.T) {
	gw := newFakeGateway(
		Poll{ID: "open", Status: StatusPublished},
		Poll{ID: "draft", Status: StatusDraft},
		Poll{ID: "closed", Status: StatusClosed},
	)
	svc := NewService(gw, newTestValidator(t), core.NopLogger{})
	ctx := context.Background()
	answers := []Answer{{QuestionID: "q1", Selected: []string{"A"}}}

	if err := svc.SubmitResponse(ctx, "open", answers); err != nil {
		t.Fatalf("SubmitResponse(open) error = %v", err)
	}
	assert.Len(t, gw.responses, 1)
	assert.NotEmpty(t, gw.responses[0].ID)

	assert.ErrorIs(t, svc.SubmitResponse(ctx, "draft", answers), ErrNotOpen)
	assert.ErrorIs(t, svc.SubmitResponse(ctx, "closed", answers), ErrNotOpen)
	assert.Len(t, gw.responses, 1) // gated submissions never reached the backend
}

func Test_Service_Results(t *testing.T) {
	gw := newFakeGateway(Poll{ID: "poll-1", Status: StatusPublished})
	svc := NewService(gw, newTestValidator(t), core.NopLogger{})

	res, err := svc.Results(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}
	assert.Equal(t, float64(100), res.Questions[0].Counts[0].Percent)
	assert.Equal(t, float64(0), res.Questions[0].Counts[1].Percent)
}
