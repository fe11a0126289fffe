package model

// GenerateQuestionsRequest asks the AI assistant for draft questions.
type GenerateQuestionsRequest struct {
	Topic string `json:"topic" binding:"required,min=3,max=500"`
	Count int    `json:"count" binding:"omitempty,min=1,max=20"`
}
