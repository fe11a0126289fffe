package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnswerKind discriminates the shape of an AnswerValue.
type AnswerKind int

const (
	AnswerNull AnswerKind = iota // no value (unanswered / JSON null)
	AnswerString
	AnswerNumber
	AnswerBool
	AnswerList
)

// AnswerValue is the value a respondent gave for a single question.
// The shape depends on the question type: string for text/date/single-select,
// number for number, bool for boolean, list of strings for multi-select.
//
// It is a tagged union rather than a bare interface{} so that illegal states
// (a string in a number field) cannot survive past the JSON boundary: any
// payload that is not a string, number, bool or string array is rejected at
// unmarshal time.
type AnswerValue struct {
	kind AnswerKind
	str  string
	num  float64
	b    bool
	list []string
}

// AnswerSet maps question IDs to answer values. Absence of a key means
// "unanswered".
type AnswerSet map[string]AnswerValue

// StringAnswer builds a text/date/single-select answer.
func StringAnswer(s string) AnswerValue { return AnswerValue{kind: AnswerString, str: s} }

// NumberAnswer builds a numeric answer.
func NumberAnswer(n float64) AnswerValue { return AnswerValue{kind: AnswerNumber, num: n} }

// BoolAnswer builds a yes/no answer.
func BoolAnswer(b bool) AnswerValue { return AnswerValue{kind: AnswerBool, b: b} }

// ListAnswer builds a multi-select answer.
func ListAnswer(values ...string) AnswerValue {
	return AnswerValue{kind: AnswerList, list: values}
}

// Kind returns the discriminant.
func (v AnswerValue) Kind() AnswerKind { return v.kind }

// IsBlank reports whether the value counts as "unanswered" for visibility
// rule evaluation: a null value or an empty string. An empty multi-select
// list is NOT blank — it is an answered-but-empty value, mirroring the
// original evaluator which only special-cased undefined, null and ''.
func (v AnswerValue) IsBlank() bool {
	return v.kind == AnswerNull || (v.kind == AnswerString && v.str == "")
}

// IsEmpty reports whether the value counts as "empty" for required-field
// validation: blank, or an empty multi-select list.
func (v AnswerValue) IsEmpty() bool {
	return v.IsBlank() || (v.kind == AnswerList && len(v.list) == 0)
}

// String renders the value the way JavaScript's String() would, because
// visibility rule comparison is defined over that coercion and must not be
// made type-aware (a documented must-preserve quirk): booleans become
// "true"/"false", numbers their shortest decimal form, lists a
// comma-joined string, null the empty string.
func (v AnswerValue) String() string {
	switch v.kind {
	case AnswerString:
		return v.str
	case AnswerNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case AnswerBool:
		return strconv.FormatBool(v.b)
	case AnswerList:
		return strings.Join(v.list, ",")
	default:
		return ""
	}
}

// List returns the multi-select values, or nil for non-list answers.
func (v AnswerValue) List() []string {
	if v.kind != AnswerList {
		return nil
	}
	return v.list
}

// MarshalJSON emits the underlying value in its natural JSON shape.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AnswerString:
		return json.Marshal(v.str)
	case AnswerNumber:
		return json.Marshal(v.num)
	case AnswerBool:
		return json.Marshal(v.b)
	case AnswerList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a string, number, bool, string array or null and
// rejects anything else (objects, mixed arrays).
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = AnswerValue{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringAnswer(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("answer array must contain only strings: %w", err)
		}
		*v = AnswerValue{kind: AnswerList, list: list}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolAnswer(b)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported answer value %s", trimmed)
		}
		*v = NumberAnswer(n)
		return nil
	}
}
