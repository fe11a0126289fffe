package service

import (
	"testing"

	"github.com/insightflow/insightflow-backend/internal/model"
)

func TestFindAnswerLastEntryWins(t *testing.T) {
	answers := []model.ResponseValue{
		{QuestionID: "q1", Value: model.StringAnswer("first")},
		{QuestionID: "q2", Value: model.StringAnswer("other")},
		{QuestionID: "q1", Value: model.StringAnswer("second")},
	}

	got, ok := findAnswer(answers, "q1")
	if !ok {
		t.Fatal("expected to find q1")
	}
	if got.String() != "second" {
		t.Errorf("got %q, want the later entry", got.String())
	}

	if _, ok := findAnswer(answers, "missing"); ok {
		t.Error("expected miss for unknown question")
	}
}

func TestOptionCountsOrdering(t *testing.T) {
	q := model.Question{
		ID:   "color",
		Type: model.QuestionTypeSingleSelect,
		Options: []model.QuestionOption{
			{Value: "red", Label: "Red"},
			{Value: "green", Label: "Green"},
			{Value: "blue", Label: "Blue"},
		},
	}

	counts := map[string]int{"blue": 4, "red": 1}
	got := optionCounts(q, counts)
	if len(got) != 3 {
		t.Fatalf("expected 3 option counts, got %d", len(got))
	}

	// Counts follow authoring order, with zero for unchosen options.
	want := []model.OptionCount{
		{Value: "red", Label: "Red", Count: 1},
		{Value: "green", Label: "Green", Count: 0},
		{Value: "blue", Label: "Blue", Count: 4},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestOptionCountsBoolean(t *testing.T) {
	q := model.Question{ID: "agree", Type: model.QuestionTypeBoolean}
	got := optionCounts(q, map[string]int{"true": 7})
	if len(got) != 2 {
		t.Fatalf("expected fixed Yes/No pair, got %d entries", len(got))
	}
	if got[0].Count != 7 || got[1].Count != 0 {
		t.Errorf("boolean counts = %+v", got)
	}
}

func TestOptionCountsFreeFormIsNil(t *testing.T) {
	q := model.Question{ID: "notes", Type: model.QuestionTypeText}
	if got := optionCounts(q, map[string]int{"anything": 3}); got != nil {
		t.Errorf("expected nil for free-form question, got %+v", got)
	}
}
