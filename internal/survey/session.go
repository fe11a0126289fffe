package survey

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/insightflow/insightflow-backend/internal/model"
)

// State enumerates the respondent session lifecycle.
type State string

const (
	StateLoading     State = "loading"
	StateAuthorizing State = "authorizing"
	StateAnswering   State = "answering"
	StateSubmitting  State = "submitting"
	StateSubmitted   State = "submitted"
)

// Session transition errors.
var (
	ErrSessionState     = errors.New("operation not allowed in current session state")
	ErrPasscodeRejected = errors.New("incorrect passcode")
	ErrValidation       = errors.New("required questions are unanswered")
	ErrLastPage         = errors.New("already on the last page, use Submit")
	ErrSubmissionFailed = errors.New("submission failed")
)

// Submitter is the external collaborator that persists a finished response.
// The session hands over the answer pairs only; generating the response ID
// and timestamp is the submitter's job, not the session's.
type Submitter interface {
	SubmitResponse(ctx context.Context, questionnaireID string, answers []model.ResponseValue) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, questionnaireID string, answers []model.ResponseValue) error

func (f SubmitterFunc) SubmitResponse(ctx context.Context, questionnaireID string, answers []model.ResponseValue) error {
	return f(ctx, questionnaireID, answers)
}

// Session owns the state of a single respondent working through one
// questionnaire: the accumulating answer set, the current page and any
// surfaced validation errors. It processes one event at a time to
// completion and is not safe for concurrent use — nor does it need to be,
// since a session belongs to exactly one respondent.
//
// The questionnaire snapshot is treated as immutable for the lifetime of
// the session.
type Session struct {
	submitter Submitter

	state         State
	questionnaire *model.Questionnaire
	perPage       int

	answers model.AnswerSet
	pages   [][]model.Question
	page    int
	errs    map[string]ErrorKind
}

// NewSession creates a session in StateLoading. The caller fetches the
// questionnaire from its store and hands it over via Load.
func NewSession(submitter Submitter) *Session {
	return &Session{
		submitter: submitter,
		state:     StateLoading,
		answers:   make(model.AnswerSet),
		errs:      make(map[string]ErrorKind),
	}
}

// Load installs the questionnaire snapshot and leaves Loading. If the
// questionnaire carries a passcode the session waits in StateAuthorizing,
// otherwise answering starts immediately.
func (s *Session) Load(q *model.Questionnaire) error {
	if s.state != StateLoading {
		return fmt.Errorf("%w: load in state %s", ErrSessionState, s.state)
	}

	s.questionnaire = q
	s.perPage = q.Settings.ResolvedPerPage()
	s.recompute()

	if q.Settings != nil && q.Settings.Passcode != "" {
		s.state = StateAuthorizing
	} else {
		s.state = StateAnswering
	}
	return nil
}

// Authorize compares the respondent-entered passcode against the stored one
// via plain equality. A wrong passcode returns ErrPasscodeRejected and the
// session stays in StateAuthorizing; there is no retry limit.
func (s *Session) Authorize(passcode string) error {
	if s.state != StateAuthorizing {
		return fmt.Errorf("%w: authorize in state %s", ErrSessionState, s.state)
	}
	if passcode != s.questionnaire.Settings.Passcode {
		return ErrPasscodeRejected
	}
	s.state = StateAnswering
	return nil
}

// AnswerChanged records a respondent input event: it stores the value,
// clears any validation error for that question, recomputes visibility and
// pagination from scratch and clamps the page index if the change removed
// enough visible questions that the current page no longer exists.
func (s *Session) AnswerChanged(questionID string, value model.AnswerValue) error {
	if s.state != StateAnswering {
		return fmt.Errorf("%w: answer in state %s", ErrSessionState, s.state)
	}

	s.answers[questionID] = value
	delete(s.errs, questionID)
	s.recompute()
	return nil
}

// Next validates the current page and advances to the following one.
// Validation failures surface through Errors and leave the page unchanged.
// Calling Next on the terminal page is illegal; that page submits instead.
func (s *Session) Next() error {
	if s.state != StateAnswering {
		return fmt.Errorf("%w: next in state %s", ErrSessionState, s.state)
	}

	if errs := Validate(s.CurrentQuestions(), s.answers); len(errs) > 0 {
		s.errs = errs
		return ErrValidation
	}

	if s.page >= len(s.pages)-1 {
		return ErrLastPage
	}
	s.page++
	return nil
}

// Back moves to the previous page if one exists. No validation runs; going
// back never loses already-entered answers.
func (s *Session) Back() error {
	if s.state != StateAnswering {
		return fmt.Errorf("%w: back in state %s", ErrSessionState, s.state)
	}
	if s.page > 0 {
		s.page--
	}
	return nil
}

// Submit validates the current page and hands the full answer set to the
// submitter. On success the session reaches StateSubmitted and accepts no
// further transitions. On failure it returns to StateAnswering with all
// answers preserved so the respondent may retry; there is no automatic
// retry and no deduplication of double submits — hosts should disable the
// control while StateSubmitting.
func (s *Session) Submit(ctx context.Context) error {
	if s.state != StateAnswering {
		return fmt.Errorf("%w: submit in state %s", ErrSessionState, s.state)
	}

	if errs := Validate(s.CurrentQuestions(), s.answers); len(errs) > 0 {
		s.errs = errs
		return ErrValidation
	}

	s.state = StateSubmitting
	err := s.submitter.SubmitResponse(ctx, s.questionnaire.ID.String(), s.ResponseValues())
	if err != nil {
		s.state = StateAnswering
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	s.state = StateSubmitted
	return nil
}

// ResponseValues flattens the answer set into pairs, using only keys that
// are present — unanswered optional questions contribute no entry. Pairs
// follow questionnaire order; answers to IDs not in the questionnaire (for
// example, answers to since-deleted questions) are appended in sorted order
// so the output is deterministic.
func (s *Session) ResponseValues() []model.ResponseValue {
	values := make([]model.ResponseValue, 0, len(s.answers))
	seen := make(map[string]bool, len(s.answers))

	for _, q := range s.questionnaire.Questions {
		if ans, ok := s.answers[q.ID]; ok {
			values = append(values, model.ResponseValue{QuestionID: q.ID, Value: ans})
			seen[q.ID] = true
		}
	}

	var extras []string
	for id := range s.answers {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	for _, id := range extras {
		values = append(values, model.ResponseValue{QuestionID: id, Value: s.answers[id]})
	}
	return values
}

// recompute rebuilds the visible-question list and page partition from the
// current answers. Never memoized: stale visibility is a correctness bug.
func (s *Session) recompute() {
	visible := VisibleQuestions(s.questionnaire, s.answers)
	s.pages = Paginate(visible, s.perPage)
	s.page = ClampPage(s.page, len(s.pages))
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Page returns the zero-based current page index.
func (s *Session) Page() int { return s.page }

// TotalPages returns the number of pages under current visibility.
func (s *Session) TotalPages() int { return len(s.pages) }

// CurrentQuestions returns the visible questions of the current page.
func (s *Session) CurrentQuestions() []model.Question {
	if s.page >= len(s.pages) {
		return nil
	}
	return s.pages[s.page]
}

// Errors returns the validation errors surfaced by the last failed Next or
// Submit, keyed by question ID. Entries clear as their question is answered.
func (s *Session) Errors() map[string]ErrorKind { return s.errs }

// Answer returns the stored answer for a question, if any.
func (s *Session) Answer(questionID string) (model.AnswerValue, bool) {
	v, ok := s.answers[questionID]
	return v, ok
}
