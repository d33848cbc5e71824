package poll

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core"
)

// Poll lifecycle. Linear: DRAFT -> PUBLISHED -> CLOSED, no reversal.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusClosed    Status = "CLOSED"
)

var statusTransitions = map[Status][]Status{
	StatusDraft:     {StatusPublished},
	StatusPublished: {StatusClosed},
	StatusClosed:    {},
}

// CanTransition reports whether the lifecycle permits moving to `to`.
func (s Status) CanTransition(to Status) bool {
	for _, next := range statusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	Checkbox       QuestionType = "CHECKBOX"
	YesNo          QuestionType = "YES_NO"
	ShortText      QuestionType = "SHORT_TEXT"
)

var yesNoOptions = []string{"Yes", "No"}

type (
	Poll struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		Audience    string     `json:"audience"`
		Anonymous   bool       `json:"anonymous"`
		Visibility  string     `json:"visibility"`
		Status      Status     `json:"status"`
		Questions   []Question `json:"questions"`
		CreatedBy   string     `json:"created_by"`
		CreatedAt   time.Time  `json:"created_at"` // UTC
		PublishedAt null.Time  `json:"published_at,omitempty"`
		ClosedAt    null.Time  `json:"closed_at,omitempty"`
	}

	Question struct {
		ID      string       `json:"id"`
		Text    string       `json:"text"`
		Type    QuestionType `json:"type"`
		Options []string     `json:"options,omitempty"`
	}
)

// NewPoll contains information needed to create a new Poll (in DRAFT).
type NewPoll struct {
	Title      string        `json:"title" validate:"required"`
	Audience   string        `json:"audience" validate:"required,oneof=STUDENTS PARENTS STAFF ALL"`
	Anonymous  bool          `json:"anonymous"`
	Visibility string        `json:"visibility" validate:"omitempty,oneof=RESULTS_PUBLIC RESULTS_PRIVATE"`
	Questions  []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type NewQuestion struct {
	Text    string       `json:"text" validate:"required"`
	Type    QuestionType `json:"type" validate:"required,oneof=MULTIPLE_CHOICE CHECKBOX YES_NO SHORT_TEXT"`
	Options []string     `json:"options"`
}

// Validate cleans the form, runs tag validation then the per-type option
// rules: MULTIPLE_CHOICE / CHECKBOX need at least 2 options, YES_NO always
// gets the fixed {Yes, No} pair and SHORT_TEXT carries none.
func (np *NewPoll) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	if np.Visibility == "" {
		np.Visibility = "RESULTS_PRIVATE"
	}
	for i := range np.Questions {
		np.Questions[i].Text = core.CleanString(np.Questions[i].Text)
		for j := range np.Questions[i].Options {
			np.Questions[i].Options[j] = core.CleanString(np.Questions[i].Options[j])
		}
	}

	if err := validate.Struct(np); err != nil {
		return err
	}

	var flds []core.FieldError
	for i, q := range np.Questions {
		switch q.Type {
		case MultipleChoice, Checkbox:
			if len(nonEmpty(q.Options)) < 2 {
				flds = append(flds, core.FieldError{
					Field: questionField(i, "options"),
					Error: "at least 2 options are required",
				})
			}
		case YesNo:
			np.Questions[i].Options = yesNoOptions
		case ShortText:
			np.Questions[i].Options = nil
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New("invalid questions"), flds...)
	}
	return nil
}

func nonEmpty(opts []string) []string {
	out := opts[:0:0]
	for _, o := range opts {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func questionField(idx int, name string) string {
	return "questions[" + strconv.Itoa(idx) + "]." + name
}

// Response is one respondent's submission against a PUBLISHED poll.
type Response struct {
	ID      string    `json:"id"`
	PollID  string    `json:"poll_id"`
	Answers []Answer  `json:"answers"`
	SentAt  time.Time `json:"sent_at"` // UTC
}

type Answer struct {
	QuestionID string   `json:"question_id"`
	Selected   []string `json:"selected,omitempty"`
	Text       string   `json:"text,omitempty"`
}

// Results aggregation as displayed on the results board.
type (
	Results struct {
		PollID    string            `json:"poll_id"`
		Total     int               `json:"total"` // responses received
		Questions []QuestionResults `json:"questions"`
	}

	QuestionResults struct {
		QuestionID string        `json:"question_id"`
		Text       string        `json:"text"`
		Counts     []OptionCount `json:"counts"`
	}

	OptionCount struct {
		Option  string  `json:"option"`
		Count   int     `json:"count"`
		Percent float64 `json:"percent"`
	}
)

// FillPercentages computes each option's share of the question's total
// selections. A question with no selections reports 0% across the board.
func (r *Results) FillPercentages() {
	for qi := range r.Questions {
		var total int
		for _, oc := range r.Questions[qi].Counts {
			total += oc.Count
		}
		for ci := range r.Questions[qi].Counts {
			if total == 0 {
				r.Questions[qi].Counts[ci].Percent = 0
				continue
			}
			c := &r.Questions[qi].Counts[ci]
			c.Percent = float64(c.Count) * 100 / float64(total)
		}
	}
}
