package model

import (
	"time"

	"github.com/google/uuid"
)

// ResponseValue pairs a question ID with the answer a respondent gave.
type ResponseValue struct {
	QuestionID string      `json:"questionId" binding:"required"`
	Value      AnswerValue `json:"value"`
}

// QuestionnaireResponse is one submitted response to a questionnaire.
type QuestionnaireResponse struct {
	ID              uuid.UUID       `json:"id"`
	QuestionnaireID uuid.UUID       `json:"questionnaire_id"`
	SubmittedAt     time.Time       `json:"submitted_at"`
	Answers         []ResponseValue `json:"answers"`
}

// SubmitResponseRequest is the public payload for submitting a response.
// Unanswered optional questions contribute no entry.
type SubmitResponseRequest struct {
	Answers []ResponseValue `json:"answers" binding:"dive"`
}

// AnswerSet converts the submitted pairs into an answer map keyed by
// question ID, the shape the visibility evaluator and validator consume.
// Later duplicates win, matching a map rebuilt from entry pairs.
func (r SubmitResponseRequest) AnswerSet() AnswerSet {
	set := make(AnswerSet, len(r.Answers))
	for _, a := range r.Answers {
		set[a.QuestionID] = a.Value
	}
	return set
}
