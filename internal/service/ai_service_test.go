package service

import (
	"testing"

	"github.com/insightflow/insightflow-backend/internal/model"
)

func TestParseGeneratedQuestionsStripsFences(t *testing.T) {
	content := "```json\n[{\"title\": \"How satisfied are you?\", \"type\": \"single-select\", \"options\": [{\"value\": \"good\", \"label\": \"Good\"}, {\"value\": \"bad\", \"label\": \"Bad\"}]}]\n```"

	questions, err := parseGeneratedQuestions(content)
	if err != nil {
		t.Fatalf("parseGeneratedQuestions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}

	q := questions[0]
	if q.Type != model.QuestionTypeSingleSelect {
		t.Errorf("type = %q, want single-select", q.Type)
	}
	if len(q.Options) != 2 {
		t.Errorf("options = %d, want 2", len(q.Options))
	}
	if q.ID == "" {
		t.Error("expected generated question ID")
	}
}

func TestParseGeneratedQuestionsTypeFallbacks(t *testing.T) {
	content := `[
		{"title": "Free form", "type": "essay"},
		{"title": "Pick one", "type": "single-select"},
		{"title": "A number", "type": "number"},
		{"title": "", "type": "text"}
	]`

	questions, err := parseGeneratedQuestions(content)
	if err != nil {
		t.Fatalf("parseGeneratedQuestions: %v", err)
	}
	// The empty-title entry is dropped.
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}

	// Unknown type degrades to text.
	if questions[0].Type != model.QuestionTypeText {
		t.Errorf("unknown type became %q, want text", questions[0].Type)
	}
	// Select without options degrades to text.
	if questions[1].Type != model.QuestionTypeText {
		t.Errorf("optionless select became %q, want text", questions[1].Type)
	}
	if questions[2].Type != model.QuestionTypeNumber {
		t.Errorf("number type became %q", questions[2].Type)
	}
}

func TestParseGeneratedQuestionsRejectsProse(t *testing.T) {
	if _, err := parseGeneratedQuestions("Sure! Here are your questions: ..."); err == nil {
		t.Fatal("expected error for non-JSON content")
	}
}
