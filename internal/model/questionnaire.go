package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionnaireStatus enumerates the possible states of a questionnaire.
type QuestionnaireStatus string

const (
	QuestionnaireStatusDraft     QuestionnaireStatus = "draft"
	QuestionnaireStatusPublished QuestionnaireStatus = "published"
)

// QuestionType enumerates the supported question input types.
type QuestionType string

const (
	QuestionTypeText         QuestionType = "text"
	QuestionTypeNumber       QuestionType = "number"
	QuestionTypeDate         QuestionType = "date"
	QuestionTypeBoolean      QuestionType = "boolean"
	QuestionTypeSingleSelect QuestionType = "single-select"
	QuestionTypeMultiSelect  QuestionType = "multi-select"
)

// RuleOperator enumerates visibility rule comparison operators.
type RuleOperator string

const (
	OperatorEquals    RuleOperator = "equals"
	OperatorNotEquals RuleOperator = "not_equals"
	OperatorContains  RuleOperator = "contains"
)

// LogicRule gates a question's visibility on the answer to an earlier
// question. The referenced question must precede the dependent one in the
// questionnaire sequence; a forward reference is never satisfiable since the
// dependency is still unanswered when the rule is evaluated.
type LogicRule struct {
	QuestionID string       `json:"questionId"`
	Operator   RuleOperator `json:"operator"`
	Value      AnswerValue  `json:"value"`
}

// QuestionOption is one selectable choice of a select-type question.
type QuestionOption struct {
	Value string `json:"value" binding:"required"`
	Label string `json:"label" binding:"required"`
}

// Question is a single survey question. IDs are opaque strings generated by
// the builder, unique within a questionnaire.
type Question struct {
	ID              string           `json:"id" binding:"required"`
	Title           string           `json:"title" binding:"required"`
	Description     string           `json:"description,omitempty"`
	Type            QuestionType     `json:"type" binding:"required,oneof=text number date boolean single-select multi-select"`
	Options         []QuestionOption `json:"options,omitempty" binding:"omitempty,dive"`
	Required        *bool            `json:"required,omitempty"`
	VisibilityRules []LogicRule      `json:"visibilityRules,omitempty" binding:"omitempty,dive"`
}

// IsRequired resolves the required flag; an absent flag defaults to true.
func (q Question) IsRequired() bool {
	return q.Required == nil || *q.Required
}

// DefaultQuestionsPerPage applies when settings.questionsPerPage is absent.
const DefaultQuestionsPerPage = 5

// QuestionnaireSettings holds respondent-facing behavior toggles.
type QuestionnaireSettings struct {
	// QuestionsPerPage: nil means default (5), 0 means all on one page.
	QuestionsPerPage *int   `json:"questionsPerPage,omitempty" binding:"omitempty,min=0"`
	WebhookURL       string `json:"webhookUrl,omitempty" binding:"omitempty,url"`
	Passcode         string `json:"passcode,omitempty"`
}

// ResolvedPerPage maps the stored setting to the effective page size:
// absent means 5, zero means a single page holding everything.
func (s *QuestionnaireSettings) ResolvedPerPage() int {
	if s == nil || s.QuestionsPerPage == nil {
		return DefaultQuestionsPerPage
	}
	return *s.QuestionsPerPage
}

// Questionnaire is a survey definition. Question order defines both display
// order and the only valid direction for visibility rule dependencies.
type Questionnaire struct {
	ID          uuid.UUID              `json:"id"`
	OwnerID     uuid.UUID              `json:"owner_id"`
	ProjectID   *uuid.UUID             `json:"project_id,omitempty"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Status      QuestionnaireStatus    `json:"status"`
	Questions   []Question             `json:"questions"`
	Settings    *QuestionnaireSettings `json:"settings,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// CreateQuestionnaireRequest is the payload for creating a questionnaire.
type CreateQuestionnaireRequest struct {
	ProjectID   *uuid.UUID             `json:"project_id" binding:"omitempty"`
	Title       string                 `json:"title" binding:"required,min=1,max=255"`
	Description string                 `json:"description" binding:"omitempty,max=2000"`
	Questions   []Question             `json:"questions" binding:"dive"`
	Settings    *QuestionnaireSettings `json:"settings" binding:"omitempty"`
}

// UpdateQuestionnaireRequest is the payload for updating a questionnaire.
// Questions are replaced wholesale, matching the builder's save semantics.
type UpdateQuestionnaireRequest struct {
	Title       string                 `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string                `json:"description" binding:"omitempty,max=2000"`
	Questions   []Question             `json:"questions" binding:"omitempty,dive"`
	Settings    *QuestionnaireSettings `json:"settings" binding:"omitempty"`
}

// SurveyPayload is the respondent-facing view of a published questionnaire.
// It never carries the stored passcode, only whether one is required.
type SurveyPayload struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Questions        []Question `json:"questions"`
	QuestionsPerPage int        `json:"questions_per_page"`
	RequiresPasscode bool       `json:"requires_passcode"`
}
