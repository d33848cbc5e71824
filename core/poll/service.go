package poll

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

var (
	// errors
	ErrNotFound          = errors.New("poll not found")
	ErrInvalidTransition = errors.New("invalid poll status transition")
	ErrNotOpen           = errors.New("poll is not accepting responses")
)

type (
	// Gateway talks to the remote poll backend, which owns the persisted
	// polls. The console never mutates status locally; it requests the
	// transition and displays whatever the backend returns.
	Gateway interface {
		CreatePoll(ctx context.Context, p Poll) (Poll, error)
		QueryPolls(ctx context.Context) ([]Poll, error)
		GetPoll(ctx context.Context, id string) (Poll, error)
		UpdatePollStatus(ctx context.Context, id string, st Status) (Poll, error)
		DeletePoll(ctx context.Context, id string) error
		SubmitResponse(ctx context.Context, resp Response) error
		GetResults(ctx context.Context, id string) (Results, error)
	}

	Service struct {
		gw       Gateway
		validate *validator.Validate
		log      core.Logger
	}
)

func NewService(gw Gateway, validate *validator.Validate, log core.Logger) *Service {
	return &Service{gw: gw, validate: validate, log: log}
}

// Create validates the form and creates the poll in DRAFT.
func (svc *Service) Create(ctx context.Context, createdBy string, np NewPoll) (Poll, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Poll{}, err
	}

	p := Poll{
		Title:      np.Title,
		Audience:   np.Audience,
		Anonymous:  np.Anonymous,
		Visibility: np.Visibility,
		Status:     StatusDraft,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
	for _, nq := range np.Questions {
		p.Questions = append(p.Questions, Question{
			ID:      uuid.New().String(),
			Text:    nq.Text,
			Type:    nq.Type,
			Options: nq.Options,
		})
	}
	return svc.gw.CreatePoll(ctx, p)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Poll, error) {
	return svc.gw.QueryPolls(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Poll, error) {
	return svc.gw.GetPoll(ctx, id)
}

// Publish moves a DRAFT poll to PUBLISHED.
func (svc *Service) Publish(ctx context.Context, id string) (Poll, error) {
	return svc.transition(ctx, id, StatusPublished)
}

// Close moves a PUBLISHED poll to CLOSED.
func (svc *Service) Close(ctx context.Context, id string) (Poll, error) {
	return svc.transition(ctx, id, StatusClosed)
}

func (svc *Service) transition(ctx context.Context, id string, to Status) (Poll, error) {
	p, err := svc.gw.GetPoll(ctx, id)
	if err != nil {
		return Poll{}, errors.Wrap(err, "fetching poll")
	}
	if !p.Status.CanTransition(to) {
		return Poll{}, core.NewValidationError(ErrInvalidTransition, core.FieldError{
			Field: "status",
			Error: string(p.Status) + " cannot transition to " + string(to),
		})
	}
	return svc.gw.UpdatePollStatus(ctx, id, to)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.gw.DeletePoll(ctx, id)
}

// SubmitResponse sends a response against a PUBLISHED poll. The backend
// enforces the gate too; the local check just spares a doomed round trip.
func (svc *Service) SubmitResponse(ctx context.Context, pollID string, answers []Answer) error {
	p, err := svc.gw.GetPoll(ctx, pollID)
	if err != nil {
		return errors.Wrap(err, "fetching poll")
	}
	if p.Status != StatusPublished {
		return ErrNotOpen
	}

	resp := Response{
		ID:      uuid.New().String(),
		PollID:  pollID,
		Answers: answers,
		SentAt:  time.Now().UTC(),
	}
	return svc.gw.SubmitResponse(ctx, resp)
}

// Results fetches the aggregated counts and fills in display percentages.
func (svc *Service) Results(ctx context.Context, id string) (Results, error) {
	res, err := svc.gw.GetResults(ctx, id)
	if err != nil {
		return Results{}, errors.Wrap(err, "fetching results")
	}
	res.FillPercentages()
	return res, nil
}
