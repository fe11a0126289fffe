package model

import (
	"encoding/json"
	"testing"
)

func TestAnswerValueCoercion(t *testing.T) {
	tests := []struct {
		name string
		v    AnswerValue
		want string
	}{
		{"string", StringAnswer("hello"), "hello"},
		{"bool false", BoolAnswer(false), "false"},
		{"bool true", BoolAnswer(true), "true"},
		{"integral number", NumberAnswer(7), "7"},
		{"fractional number", NumberAnswer(3.5), "3.5"},
		{"list joins with comma", ListAnswer("a", "b"), "a,b"},
		{"null", AnswerValue{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnswerValueEmptiness(t *testing.T) {
	if !(AnswerValue{}).IsBlank() || !(AnswerValue{}).IsEmpty() {
		t.Error("null value must be blank and empty")
	}
	if !StringAnswer("").IsBlank() {
		t.Error("empty string must be blank")
	}
	// An empty list is answered-but-empty: it fails required validation but
	// does not count as unanswered for rule evaluation.
	if ListAnswer().IsBlank() {
		t.Error("empty list must not be blank")
	}
	if !ListAnswer().IsEmpty() {
		t.Error("empty list must be empty")
	}
	if BoolAnswer(false).IsEmpty() {
		t.Error("false is an answer, not empty")
	}
	if NumberAnswer(0).IsEmpty() {
		t.Error("zero is an answer, not empty")
	}
}

func TestAnswerValueUnmarshalShapes(t *testing.T) {
	var v AnswerValue

	if err := json.Unmarshal([]byte(`"text"`), &v); err != nil || v.Kind() != AnswerString {
		t.Fatalf("string: err=%v kind=%d", err, v.Kind())
	}
	if err := json.Unmarshal([]byte(`4.25`), &v); err != nil || v.Kind() != AnswerNumber {
		t.Fatalf("number: err=%v kind=%d", err, v.Kind())
	}
	if err := json.Unmarshal([]byte(`true`), &v); err != nil || v.Kind() != AnswerBool {
		t.Fatalf("bool: err=%v kind=%d", err, v.Kind())
	}
	if err := json.Unmarshal([]byte(`["a","b"]`), &v); err != nil || len(v.List()) != 2 {
		t.Fatalf("list: err=%v list=%v", err, v.List())
	}
	if err := json.Unmarshal([]byte(`null`), &v); err != nil || v.Kind() != AnswerNull {
		t.Fatalf("null: err=%v kind=%d", err, v.Kind())
	}

	if err := json.Unmarshal([]byte(`{"nested":1}`), &v); err == nil {
		t.Fatal("object answers must be rejected")
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &v); err == nil {
		t.Fatal("non-string arrays must be rejected")
	}
}
