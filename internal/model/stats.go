package model

// MonthlyCount is one bucket of the response trend, keyed by "YYYY-MM".
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// UsageStats summarizes an account's activity for the dashboard.
type UsageStats struct {
	Projects                int              `json:"projects"`
	ProjectLimit            int              `json:"project_limit"`
	Questionnaires          int              `json:"questionnaires"`
	PublishedQuestionnaires int              `json:"published_questionnaires"`
	Responses               int              `json:"responses"`
	Plan                    SubscriptionPlan `json:"plan"`
	ResponseTrend           []MonthlyCount   `json:"response_trend"`
}

// ProjectUsage summarizes activity within a single project.
type ProjectUsage struct {
	Questionnaires          int `json:"questionnaires"`
	PublishedQuestionnaires int `json:"published_questionnaires"`
	Responses               int `json:"responses"`
}

// OptionCount is the tally for one choice of a select or boolean question.
type OptionCount struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// QuestionStat aggregates submitted answers for one question.
// Options is populated for boolean and select types only.
type QuestionStat struct {
	QuestionID string        `json:"question_id"`
	Title      string        `json:"title"`
	Type       QuestionType  `json:"type"`
	Answered   int           `json:"answered"`
	Options    []OptionCount `json:"options,omitempty"`
}
