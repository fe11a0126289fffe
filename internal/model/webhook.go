package model

import "github.com/google/uuid"

// WebhookJob is one queued webhook delivery. The worker resolves the
// questionnaire's current webhook URL at delivery time, so editing the URL
// between submission and delivery takes effect.
type WebhookJob struct {
	QuestionnaireID uuid.UUID `json:"questionnaire_id"`
	ResponseID      uuid.UUID `json:"response_id"`
	Attempt         int       `json:"attempt"`
}

// WebhookPayload is the body POSTed to the configured webhook URL.
type WebhookPayload struct {
	Event    string                 `json:"event"`
	Response *QuestionnaireResponse `json:"response"`
}

// MonitorEvent is broadcast over the live monitor channel when a response
// arrives.
type MonitorEvent struct {
	Type            string    `json:"type"`
	QuestionnaireID uuid.UUID `json:"questionnaire_id"`
	ResponseID      uuid.UUID `json:"response_id"`
	SubmittedAt     string    `json:"submitted_at"`
	AnswerCount     int       `json:"answer_count"`
	TotalResponses  int64     `json:"total_responses"`
}
