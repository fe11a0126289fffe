package survey

import (
	"testing"

	"github.com/insightflow/insightflow-backend/internal/model"
)

func required(q model.Question) model.Question {
	t := true
	q.Required = &t
	return q
}

func optional(q model.Question) model.Question {
	f := false
	q.Required = &f
	return q
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		questions []model.Question
		answers   model.AnswerSet
		wantIDs   []string
	}{
		{
			name:      "answered required question passes",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{"q1": model.StringAnswer("hello")},
			wantIDs:   nil,
		},
		{
			name:      "missing answer flagged",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{},
			wantIDs:   []string{"q1"},
		},
		{
			name:      "null answer flagged",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{"q1": {}},
			wantIDs:   []string{"q1"},
		},
		{
			name:      "empty string flagged",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{"q1": model.StringAnswer("")},
			wantIDs:   []string{"q1"},
		},
		{
			name:      "empty multi-select flagged",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{"q1": model.ListAnswer()},
			wantIDs:   []string{"q1"},
		},
		{
			name:      "single element multi-select passes",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{"q1": model.ListAnswer("a")},
			wantIDs:   nil,
		},
		{
			name:      "boolean false is an answer, not empty",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{"q1": model.BoolAnswer(false)},
			wantIDs:   nil,
		},
		{
			name:      "number zero is an answer",
			questions: []model.Question{required(textQuestion("q1"))},
			answers:   model.AnswerSet{"q1": model.NumberAnswer(0)},
			wantIDs:   nil,
		},
		{
			name:      "optional question never flagged",
			questions: []model.Question{optional(textQuestion("q1"))},
			answers:   model.AnswerSet{},
			wantIDs:   nil,
		},
		{
			name:      "absent required flag defaults to required",
			questions: []model.Question{textQuestion("q1")},
			answers:   model.AnswerSet{},
			wantIDs:   []string{"q1"},
		},
		{
			name: "only passed questions are checked",
			questions: []model.Question{
				required(textQuestion("q1")),
			},
			// q2 is required elsewhere (another page or hidden) but not in
			// scope for this check, so it is never flagged here.
			answers: model.AnswerSet{"q1": model.StringAnswer("x")},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.questions, tt.answers)
			if len(errs) != len(tt.wantIDs) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantIDs))
			}
			for _, id := range tt.wantIDs {
				if errs[id] != ErrRequired {
					t.Errorf("question %s: got %q, want %q", id, errs[id], ErrRequired)
				}
			}
		})
	}
}
