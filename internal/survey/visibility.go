// Package survey implements the conditional-visibility engine that drives a
// respondent session: rule evaluation, pagination, required-field validation
// and the session state machine. Everything here is pure and synchronous
// except Session.Submit, which calls out through the Submitter interface.
package survey

import (
	"strings"

	"github.com/insightflow/insightflow-backend/internal/model"
)

// IsVisible reports whether a question should currently be shown given the
// respondent's in-progress answers. A question with no visibility rules is
// always visible; otherwise every rule must hold (rules are ANDed, there is
// no OR or grouping).
func IsVisible(q model.Question, answers model.AnswerSet) bool {
	for _, rule := range q.VisibilityRules {
		if !ruleHolds(rule, answers) {
			return false
		}
	}
	return true
}

// ruleHolds evaluates a single rule against the answer set.
//
// An unanswered dependency (missing key, null, or empty string) makes the
// rule unsatisfied regardless of operator, so questions depending on
// not-yet-reached answers stay hidden. A rule referencing a question ID that
// does not exist behaves the same way: its answer can never appear, the
// dependent question simply never shows, and no error is surfaced.
//
// Comparison is over JS-style string coercion of both sides. This is a
// deliberate compatibility decision, not an oversight: type-aware comparison
// would silently change the behavior of existing surveys.
func ruleHolds(rule model.LogicRule, answers model.AnswerSet) bool {
	if rule.QuestionID == "" {
		return true
	}

	dep, ok := answers[rule.QuestionID]
	if !ok || dep.IsBlank() {
		return false
	}

	have := dep.String()
	want := rule.Value.String()

	switch rule.Operator {
	case model.OperatorEquals:
		return have == want
	case model.OperatorNotEquals:
		return have != want
	case model.OperatorContains:
		return strings.Contains(have, want)
	default:
		// Unknown operators fail open, matching the default-visible fallback.
		return true
	}
}

// VisibleQuestions returns, in original sequence order, the questions of q
// that are currently visible under answers. It is recomputed from scratch on
// every call; callers must not cache the result across answer changes.
func VisibleQuestions(q *model.Questionnaire, answers model.AnswerSet) []model.Question {
	visible := make([]model.Question, 0, len(q.Questions))
	for _, question := range q.Questions {
		if IsVisible(question, answers) {
			visible = append(visible, question)
		}
	}
	return visible
}
