package poll

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/heronix/teacherdesk/core"
)

func newTestValidator(t *testing.T) *validator.Validate {
	t.Helper()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func Test_NewPoll_Validate(t *testing.T) {
	validate := newTestValidator(t)

	valid := func() NewPoll {
		return NewPoll{
			Title:    "Lunch Survey",
			Audience: "STUDENTS",
			Questions: []NewQuestion{
				{Text: "Favorite lunch?", Type: MultipleChoice, Options: []string{"Pizza", "Tacos"}},
			},
		}
	}

	tests := []struct {
		name     string
		mutate   func(*NewPoll)
		wantErr  bool
		wantFlds []string
	}{
		{name: "valid", mutate: func(*NewPoll) {}},
		{name: "empty title", mutate: func(np *NewPoll) { np.Title = "  " }, wantErr: true},
		{name: "bad audience", mutate: func(np *NewPoll) { np.Audience = "EVERYONE" }, wantErr: true},
		{name: "zero questions", mutate: func(np *NewPoll) { np.Questions = nil }, wantErr: true},
		{
			name:     "multiple choice with 1 option",
			mutate:   func(np *NewPoll) { np.Questions[0].Options = []string{"Pizza"} },
			wantErr:  true,
			wantFlds: []string{"questions[0].options"},
		},
		{
			name:     "checkbox with empty options",
			mutate:   func(np *NewPoll) { np.Questions[0].Type = Checkbox; np.Questions[0].Options = []string{"", " "} },
			wantErr:  true,
			wantFlds: []string{"questions[0].options"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := valid()
			tt.mutate(&np)
			err := np.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if len(tt.wantFlds) > 0 {
				var vErr *core.ValidationError
				if !assert.ErrorAs(t, err, &vErr) {
					return
				}
				var got []string
				for _, fld := range vErr.Fields {
					got = append(got, fld.Field)
				}
				assert.Equal(t, tt.wantFlds, got)
			}
		})
	}
}

func Test_NewPoll_Validate_fixedOptions(t *testing.T) {
	validate := newTestValidator(t)

	np := NewPoll{
		Title:    "Field Trip",
		Audience: "PARENTS",
		Questions: []NewQuestion{
			{Text: "Permission granted?", Type: YesNo, Options: []string{"Maybe"}},
			{Text: "Comments", Type: ShortText, Options: []string{"ignored"}},
		},
	}
	if err := np.Validate(validate); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	assert.Equal(t, []string{"Yes", "No"}, np.Questions[0].Options)
	assert.Nil(t, np.Questions[1].Options)
}

func Test_NewPoll_Validate_defaultVisibility(t *testing.T) {
	validate := newTestValidator(t)

	np := NewPoll{
		Title:    "Spirit Week",
		Audience: "ALL",
		Questions: []NewQuestion{
			{Text: "Theme?", Type: MultipleChoice, Options: []string{"80s", "Sports"}},
		},
	}
	if err := np.Validate(validate); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	assert.Equal(t, "RESULTS_PRIVATE", np.Visibility)
}

func Test_Status_CanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusDraft, StatusClosed, false},
		{StatusPublished, StatusClosed, true},
		{StatusPublished, StatusDraft, false},
		{StatusClosed, StatusPublished, false},
		{StatusClosed, StatusDraft, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s.CanTransition(%s) = %v; want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func Test_Results_FillPercentages(t *testing.T) {
	res := Results{
		PollID: "poll-1",
		Total:  1,
		Questions: []QuestionResults{
			{
				QuestionID: "q1",
				Counts: []OptionCount{
					{Option: "A", Count: 1},
					{Option: "B", Count: 0},
				},
			},
			{
				QuestionID: "q2",
				Counts: []OptionCount{
					{Option: "Yes", Count: 0},
					{Option: "No", Count: 0},
				},
			},
		},
	}
	res.FillPercentages()

	assert.Equal(t, float64(100), res.Questions[0].Counts[0].Percent)
	assert.Equal(t, float64(0), res.Questions[0].Counts[1].Percent)
	assert.Equal(t, float64(0), res.Questions[1].Counts[0].Percent)
	assert.Equal(t, float64(0), res.Questions[1].Counts[1].Percent)
}
