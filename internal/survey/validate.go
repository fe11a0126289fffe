package survey

import "github.com/insightflow/insightflow-backend/internal/model"

// ErrorKind classifies a per-question validation failure.
type ErrorKind string

// ErrRequired marks a required, visible question left unanswered.
const ErrRequired ErrorKind = "REQUIRED_FIELD_MISSING"

// Validate checks the given questions (normally the visible questions of the
// current page) against the answer set and returns a map of question ID to
// error kind; an empty map means valid.
//
// Only the questions passed in are considered: a required question that is
// hidden by visibility rules, or lives on another page, is never flagged.
// Non-required questions are never flagged regardless of content.
func Validate(questions []model.Question, answers model.AnswerSet) map[string]ErrorKind {
	errs := make(map[string]ErrorKind)
	for _, q := range questions {
		if !q.IsRequired() {
			continue
		}
		ans, ok := answers[q.ID]
		if !ok || ans.IsEmpty() {
			errs[q.ID] = ErrRequired
		}
	}
	return errs
}
