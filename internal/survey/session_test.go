package survey

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/insightflow/insightflow-backend/internal/model"
)

func intPtr(n int) *int { return &n }

// captureSubmitter records what the session hands off.
type captureSubmitter struct {
	calls           int
	questionnaireID string
	answers         []model.ResponseValue
	err             error
}

func (c *captureSubmitter) SubmitResponse(_ context.Context, questionnaireID string, answers []model.ResponseValue) error {
	c.calls++
	c.questionnaireID = questionnaireID
	c.answers = answers
	return c.err
}

func branchingQuestionnaire() *model.Questionnaire {
	return &model.Questionnaire{
		Title:  "Service feedback",
		Status: model.QuestionnaireStatusPublished,
		Questions: []model.Question{
			{
				ID:    "Q1",
				Title: "Are you satisfied?",
				Type:  model.QuestionTypeSingleSelect,
				Options: []model.QuestionOption{
					{Value: "Yes", Label: "Yes"},
					{Value: "No", Label: "No"},
				},
			},
			{
				ID:    "Q2",
				Title: "What did you like?",
				Type:  model.QuestionTypeText,
				VisibilityRules: []model.LogicRule{
					{QuestionID: "Q1", Operator: model.OperatorEquals, Value: model.StringAnswer("Yes")},
				},
			},
		},
		Settings: &model.QuestionnaireSettings{QuestionsPerPage: intPtr(5)},
	}
}

func startedSession(t *testing.T, q *model.Questionnaire, sub Submitter) *Session {
	t.Helper()
	s := NewSession(sub)
	if s.State() != StateLoading {
		t.Fatalf("fresh session state = %s, want %s", s.State(), StateLoading)
	}
	if err := s.Load(q); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

// Scenario: a conditional question appears only on a Yes answer, and an
// unanswered conditional required question blocks submission.
func TestSessionConditionalBranch(t *testing.T) {
	sub := &captureSubmitter{}
	s := startedSession(t, branchingQuestionnaire(), sub)

	if s.State() != StateAnswering {
		t.Fatalf("state = %s, want %s", s.State(), StateAnswering)
	}

	// Branch not taken: only Q1 visible, single page, submit carries Q1 only.
	if err := s.AnswerChanged("Q1", model.StringAnswer("No")); err != nil {
		t.Fatalf("AnswerChanged: %v", err)
	}
	if got := len(s.CurrentQuestions()); got != 1 {
		t.Fatalf("visible questions = %d, want 1", got)
	}
	if s.TotalPages() != 1 {
		t.Fatalf("total pages = %d, want 1", s.TotalPages())
	}
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if s.State() != StateSubmitted {
		t.Fatalf("state = %s, want %s", s.State(), StateSubmitted)
	}
	if len(sub.answers) != 1 || sub.answers[0].QuestionID != "Q1" {
		t.Fatalf("submitted answers = %+v, want only Q1", sub.answers)
	}

	// Branch taken: Q2 becomes visible and, unanswered, blocks submit.
	sub2 := &captureSubmitter{}
	s2 := startedSession(t, branchingQuestionnaire(), sub2)
	if err := s2.AnswerChanged("Q1", model.StringAnswer("Yes")); err != nil {
		t.Fatalf("AnswerChanged: %v", err)
	}
	if got := len(s2.CurrentQuestions()); got != 2 {
		t.Fatalf("visible questions = %d, want 2", got)
	}
	err := s2.Submit(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Submit with empty Q2 = %v, want ErrValidation", err)
	}
	if s2.Errors()["Q2"] != ErrRequired {
		t.Fatalf("errors = %v, want Q2 flagged", s2.Errors())
	}
	if sub2.calls != 0 {
		t.Fatalf("submitter called %d times despite validation failure", sub2.calls)
	}

	// Answering Q2 clears the error and unblocks submission.
	if err := s2.AnswerChanged("Q2", model.StringAnswer("the pagination")); err != nil {
		t.Fatalf("AnswerChanged: %v", err)
	}
	if _, flagged := s2.Errors()["Q2"]; flagged {
		t.Fatal("error for Q2 not cleared by answering it")
	}
	if err := s2.Submit(context.Background()); err != nil {
		t.Fatalf("Submit after fix: %v", err)
	}
	if len(sub2.answers) != 2 {
		t.Fatalf("submitted %d answers, want 2", len(sub2.answers))
	}
}

// Scenario: 12 always-visible required questions, 5 per page, 3 pages.
func TestSessionMultiPageNavigation(t *testing.T) {
	q := &model.Questionnaire{
		Questions: questionList(12),
		Settings:  &model.QuestionnaireSettings{QuestionsPerPage: intPtr(5)},
	}
	s := startedSession(t, q, &captureSubmitter{})

	if s.TotalPages() != 3 {
		t.Fatalf("total pages = %d, want 3", s.TotalPages())
	}

	// One unanswered question on page 0 blocks Next.
	for i := 1; i <= 4; i++ {
		if err := s.AnswerChanged(fmt.Sprintf("q%d", i), model.StringAnswer("a")); err != nil {
			t.Fatalf("AnswerChanged: %v", err)
		}
	}
	if err := s.Next(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Next with gap = %v, want ErrValidation", err)
	}
	if s.Page() != 0 {
		t.Fatalf("page advanced to %d despite validation failure", s.Page())
	}
	if len(s.Errors()) != 1 {
		t.Fatalf("errors = %v, want exactly one entry", s.Errors())
	}

	// Completing the page advances.
	if err := s.AnswerChanged("q5", model.StringAnswer("a")); err != nil {
		t.Fatalf("AnswerChanged: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if s.Page() != 1 {
		t.Fatalf("page = %d, want 1", s.Page())
	}

	// Back never validates and never loses answers.
	if err := s.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if s.Page() != 0 {
		t.Fatalf("page = %d after Back, want 0", s.Page())
	}
	if _, ok := s.Answer("q3"); !ok {
		t.Fatal("answer q3 lost after Back")
	}
	// Back on page 0 is a no-op.
	if err := s.Back(); err != nil || s.Page() != 0 {
		t.Fatalf("Back on first page: err=%v page=%d", err, s.Page())
	}

	// Next on the terminal page is illegal.
	_ = s.Next()
	for i := 6; i <= 10; i++ {
		_ = s.AnswerChanged(fmt.Sprintf("q%d", i), model.StringAnswer("a"))
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next to page 2: %v", err)
	}
	for i := 11; i <= 12; i++ {
		_ = s.AnswerChanged(fmt.Sprintf("q%d", i), model.StringAnswer("a"))
	}
	if err := s.Next(); !errors.Is(err, ErrLastPage) {
		t.Fatalf("Next on last page = %v, want ErrLastPage", err)
	}
}

func TestSessionPageClampOnAnswerChange(t *testing.T) {
	// q1 always visible; q2..q8 visible only while q1 == "more".
	show := func(id string) model.Question {
		return textQuestion(id, rule("q1", model.OperatorEquals, model.StringAnswer("more")))
	}
	q := &model.Questionnaire{
		Questions: []model.Question{
			optional(textQuestion("q1")),
			optional(show("q2")), optional(show("q3")), optional(show("q4")),
			optional(show("q5")), optional(show("q6")), optional(show("q7")),
			optional(show("q8")),
		},
		Settings: &model.QuestionnaireSettings{QuestionsPerPage: intPtr(2)},
	}
	s := startedSession(t, q, &captureSubmitter{})

	if err := s.AnswerChanged("q1", model.StringAnswer("more")); err != nil {
		t.Fatal(err)
	}
	if s.TotalPages() != 4 {
		t.Fatalf("total pages = %d, want 4", s.TotalPages())
	}
	for s.Page() < 3 {
		if err := s.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}

	// Changing q1 hides q2..q8: only q1 remains, one page, index clamped.
	if err := s.AnswerChanged("q1", model.StringAnswer("done")); err != nil {
		t.Fatal(err)
	}
	if s.TotalPages() != 1 {
		t.Fatalf("total pages = %d, want 1", s.TotalPages())
	}
	if s.Page() != 0 {
		t.Fatalf("page = %d, want clamped to 0", s.Page())
	}

	// Partial shrink clamps to the last valid index, not to zero.
	s2 := startedSession(t, &model.Questionnaire{
		Questions: []model.Question{
			optional(textQuestion("q1")),
			optional(textQuestion("x1")), optional(textQuestion("x2")),
			optional(show("q2")), optional(show("q3")), optional(show("q4")),
			optional(show("q5")), optional(show("q6")),
		},
		Settings: &model.QuestionnaireSettings{QuestionsPerPage: intPtr(2)},
	}, &captureSubmitter{})
	_ = s2.AnswerChanged("q1", model.StringAnswer("more"))
	if s2.TotalPages() != 4 {
		t.Fatalf("total pages = %d, want 4", s2.TotalPages())
	}
	for s2.Page() < 3 {
		if err := s2.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	_ = s2.AnswerChanged("q1", model.StringAnswer("done"))
	if s2.TotalPages() != 2 {
		t.Fatalf("total pages = %d, want 2", s2.TotalPages())
	}
	if s2.Page() != 1 {
		t.Fatalf("page = %d, want 1 (last valid page)", s2.Page())
	}
}

func TestSessionPasscode(t *testing.T) {
	q := branchingQuestionnaire()
	q.Settings.Passcode = "open-sesame"
	s := startedSession(t, q, &captureSubmitter{})

	if s.State() != StateAuthorizing {
		t.Fatalf("state = %s, want %s", s.State(), StateAuthorizing)
	}
	if err := s.AnswerChanged("Q1", model.StringAnswer("Yes")); err == nil {
		t.Fatal("answering while unauthorized should fail")
	}

	if err := s.Authorize("wrong"); !errors.Is(err, ErrPasscodeRejected) {
		t.Fatalf("Authorize(wrong) = %v, want ErrPasscodeRejected", err)
	}
	if s.State() != StateAuthorizing {
		t.Fatalf("state after rejection = %s, want %s (no lockout)", s.State(), StateAuthorizing)
	}

	// No retry limit: a later correct attempt still succeeds.
	if err := s.Authorize("open-sesame"); err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if s.State() != StateAnswering {
		t.Fatalf("state = %s, want %s", s.State(), StateAnswering)
	}
}

func TestSessionSubmitFailureReturnsToAnswering(t *testing.T) {
	sub := &captureSubmitter{err: errors.New("backend unavailable")}
	s := startedSession(t, branchingQuestionnaire(), sub)
	_ = s.AnswerChanged("Q1", model.StringAnswer("No"))

	err := s.Submit(context.Background())
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("Submit = %v, want ErrSubmissionFailed", err)
	}
	if s.State() != StateAnswering {
		t.Fatalf("state = %s, want %s (answers preserved for manual retry)", s.State(), StateAnswering)
	}
	if _, ok := s.Answer("Q1"); !ok {
		t.Fatal("answers lost on submission failure")
	}

	// Manual retry succeeds once the backend recovers.
	sub.err = nil
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if s.State() != StateSubmitted {
		t.Fatalf("state = %s, want %s", s.State(), StateSubmitted)
	}
}

func TestSessionSubmittedIsTerminal(t *testing.T) {
	s := startedSession(t, branchingQuestionnaire(), &captureSubmitter{})
	_ = s.AnswerChanged("Q1", model.StringAnswer("No"))
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := s.AnswerChanged("Q1", model.StringAnswer("Yes")); !errors.Is(err, ErrSessionState) {
		t.Fatalf("AnswerChanged after submit = %v, want ErrSessionState", err)
	}
	if err := s.Next(); !errors.Is(err, ErrSessionState) {
		t.Fatalf("Next after submit = %v, want ErrSessionState", err)
	}
	if err := s.Submit(context.Background()); !errors.Is(err, ErrSessionState) {
		t.Fatalf("Submit after submit = %v, want ErrSessionState", err)
	}
}

func TestSessionPerPageDefaults(t *testing.T) {
	// Absent settings mean 5 per page.
	q := &model.Questionnaire{Questions: questionList(12)}
	s := startedSession(t, q, &captureSubmitter{})
	if s.TotalPages() != 3 {
		t.Fatalf("total pages = %d, want 3 with default per-page of 5", s.TotalPages())
	}

	// Explicit zero means one page regardless of count.
	q2 := &model.Questionnaire{
		Questions: questionList(12),
		Settings:  &model.QuestionnaireSettings{QuestionsPerPage: intPtr(0)},
	}
	s2 := startedSession(t, q2, &captureSubmitter{})
	if s2.TotalPages() != 1 {
		t.Fatalf("total pages = %d, want 1 with per-page of 0", s2.TotalPages())
	}
}
