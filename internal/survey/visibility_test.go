package survey

import (
	"testing"

	"github.com/insightflow/insightflow-backend/internal/model"
)

func textQuestion(id string, rules ...model.LogicRule) model.Question {
	return model.Question{
		ID:              id,
		Title:           "Question " + id,
		Type:            model.QuestionTypeText,
		VisibilityRules: rules,
	}
}

func rule(dep string, op model.RuleOperator, value model.AnswerValue) model.LogicRule {
	return model.LogicRule{QuestionID: dep, Operator: op, Value: value}
}

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name    string
		q       model.Question
		answers model.AnswerSet
		want    bool
	}{
		{
			name:    "no rules always visible",
			q:       textQuestion("q2"),
			answers: model.AnswerSet{},
			want:    true,
		},
		{
			name:    "equals satisfied",
			q:       textQuestion("q2", rule("q1", model.OperatorEquals, model.StringAnswer("Yes"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("Yes")},
			want:    true,
		},
		{
			name:    "equals unsatisfied",
			q:       textQuestion("q2", rule("q1", model.OperatorEquals, model.StringAnswer("Yes"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("No")},
			want:    false,
		},
		{
			name:    "unanswered dependency hides regardless of operator",
			q:       textQuestion("q2", rule("q1", model.OperatorNotEquals, model.StringAnswer("Yes"))),
			answers: model.AnswerSet{},
			want:    false,
		},
		{
			name:    "null dependency hides",
			q:       textQuestion("q2", rule("q1", model.OperatorEquals, model.StringAnswer(""))),
			answers: model.AnswerSet{"q1": {}},
			want:    false,
		},
		{
			name:    "empty string dependency hides",
			q:       textQuestion("q2", rule("q1", model.OperatorNotEquals, model.StringAnswer("x"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("")},
			want:    false,
		},
		{
			name:    "dependency on nonexistent question hides, never errors",
			q:       textQuestion("q2", rule("ghost", model.OperatorEquals, model.StringAnswer("Yes"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("Yes")},
			want:    false,
		},
		{
			name:    "rule with empty question id is satisfied",
			q:       textQuestion("q2", rule("", model.OperatorEquals, model.StringAnswer("Yes"))),
			answers: model.AnswerSet{},
			want:    true,
		},
		{
			name:    "not_equals satisfied",
			q:       textQuestion("q2", rule("q1", model.OperatorNotEquals, model.StringAnswer("No"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("Yes")},
			want:    true,
		},
		{
			name:    "contains substring match",
			q:       textQuestion("q2", rule("q1", model.OperatorContains, model.StringAnswer("road"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("broadband")},
			want:    true,
		},
		{
			name:    "contains no match",
			q:       textQuestion("q2", rule("q1", model.OperatorContains, model.StringAnswer("fiber"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("broadband")},
			want:    false,
		},
		{
			name:    "unknown operator fails open",
			q:       textQuestion("q2", rule("q1", "between", model.StringAnswer("1"))),
			answers: model.AnswerSet{"q1": model.StringAnswer("whatever")},
			want:    true,
		},
		{
			name:    "boolean answer compared via string coercion",
			q:       textQuestion("q2", rule("q1", model.OperatorEquals, model.StringAnswer("false"))),
			answers: model.AnswerSet{"q1": model.BoolAnswer(false)},
			want:    true,
		},
		{
			name:    "number answer compared via string coercion",
			q:       textQuestion("q2", rule("q1", model.OperatorEquals, model.NumberAnswer(3.5))),
			answers: model.AnswerSet{"q1": model.StringAnswer("3.5")},
			want:    true,
		},
		{
			name:    "integral number renders without decimal point",
			q:       textQuestion("q2", rule("q1", model.OperatorEquals, model.StringAnswer("7"))),
			answers: model.AnswerSet{"q1": model.NumberAnswer(7)},
			want:    true,
		},
		{
			name:    "multi-select coerces to comma-joined string for contains",
			q:       textQuestion("q2", rule("q1", model.OperatorContains, model.StringAnswer("b"))),
			answers: model.AnswerSet{"q1": model.ListAnswer("a", "b", "c")},
			want:    true,
		},
		{
			name: "multiple rules are ANDed, all hold",
			q: textQuestion("q3",
				rule("q1", model.OperatorEquals, model.StringAnswer("Yes")),
				rule("q2", model.OperatorNotEquals, model.StringAnswer("never")),
			),
			answers: model.AnswerSet{
				"q1": model.StringAnswer("Yes"),
				"q2": model.StringAnswer("sometimes"),
			},
			want: true,
		},
		{
			name: "multiple rules, one unsatisfying dependency hides",
			q: textQuestion("q3",
				rule("q1", model.OperatorEquals, model.StringAnswer("Yes")),
				rule("q2", model.OperatorNotEquals, model.StringAnswer("never")),
			),
			answers: model.AnswerSet{
				"q1": model.StringAnswer("Yes"),
				"q2": model.StringAnswer("never"),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.q, tt.answers); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleQuestionsOrderAndPurity(t *testing.T) {
	q := &model.Questionnaire{
		Questions: []model.Question{
			textQuestion("q1"),
			textQuestion("q2", rule("q1", model.OperatorEquals, model.StringAnswer("Yes"))),
			textQuestion("q3"),
		},
	}

	answers := model.AnswerSet{"q1": model.StringAnswer("Yes")}
	got := VisibleQuestions(q, answers)
	if len(got) != 3 {
		t.Fatalf("expected 3 visible questions, got %d", len(got))
	}
	for i, id := range []string{"q1", "q2", "q3"} {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}

	// Extra answers that no rule references must not change visibility.
	withNoise := model.AnswerSet{
		"q1":        model.StringAnswer("Yes"),
		"q3":        model.StringAnswer("anything"),
		"unrelated": model.NumberAnswer(42),
	}
	again := VisibleQuestions(q, withNoise)
	if len(again) != len(got) {
		t.Fatalf("unrelated answers changed visibility: %d vs %d", len(again), len(got))
	}
	for i := range got {
		if again[i].ID != got[i].ID {
			t.Errorf("unrelated answers reordered visibility at %d: %s vs %s", i, again[i].ID, got[i].ID)
		}
	}

	// Recomputing after a change must not serve stale results.
	answers["q1"] = model.StringAnswer("No")
	after := VisibleQuestions(q, answers)
	if len(after) != 2 {
		t.Fatalf("expected q2 hidden after change, got %d visible", len(after))
	}
	if after[0].ID != "q1" || after[1].ID != "q3" {
		t.Errorf("unexpected visible set after change: %s, %s", after[0].ID, after[1].ID)
	}
}
