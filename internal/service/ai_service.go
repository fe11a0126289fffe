package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/model"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

const aiSystemPrompt = `You are a survey design assistant. Given a topic, produce survey questions as a JSON array. Each element must have: "title" (string), "type" (one of "text", "number", "date", "boolean", "single-select", "multi-select"), and for select types an "options" array of {"value", "label"} objects. Respond with the JSON array only, no prose and no markdown fences.`

// AIService generates draft survey questions through the OpenRouter chat
// completions API. The feature is disabled when no API key is configured.
type AIService struct {
	cfg    *config.Config
	client *http.Client
	log    zerolog.Logger
}

// NewAIService creates a new AIService.
func NewAIService(cfg *config.Config, log zerolog.Logger) *AIService {
	return &AIService{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    log,
	}
}

// Enabled reports whether an OpenRouter API key is configured.
func (s *AIService) Enabled() bool {
	return s.cfg.OpenRouterAPIKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generatedQuestion is the loosely-typed shape the model returns before
// normalization into model.Question.
type generatedQuestion struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Type        string                 `json:"type"`
	Options     []model.QuestionOption `json:"options"`
}

// GenerateQuestions asks the configured model for survey questions on a
// topic. Unknown question types degrade to text, and select questions
// without options degrade to text as well.
func (s *AIService) GenerateQuestions(ctx context.Context, topic string, count int) ([]model.Question, error) {
	if !s.Enabled() {
		return nil, ErrAINotConfigured
	}
	if count < 1 {
		count = 5
	}

	userPrompt := fmt.Sprintf("Generate %d survey questions about: %s", count, topic)
	body, err := json.Marshal(chatRequest{
		Model: s.cfg.OpenRouterModel,
		Messages: []chatMessage{
			{Role: "system", Content: aiSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.OpenRouterAPIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "https://insightflow.app")
	req.Header.Set("X-Title", "InsightFlow")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read openrouter response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode).Msg("OpenRouter returned non-200")
		return nil, fmt.Errorf("openrouter status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("openrouter returned no choices")
	}

	return parseGeneratedQuestions(chat.Choices[0].Message.Content)
}

// parseGeneratedQuestions normalizes model output into questions. Models
// sometimes wrap JSON in markdown fences despite instructions, so fences
// are stripped before decoding.
func parseGeneratedQuestions(content string) ([]model.Question, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		return nil, fmt.Errorf("decode generated questions: %w", err)
	}

	questions := make([]model.Question, 0, len(generated))
	for _, g := range generated {
		if strings.TrimSpace(g.Title) == "" {
			continue
		}

		qType := model.QuestionType(g.Type)
		switch qType {
		case model.QuestionTypeText, model.QuestionTypeNumber, model.QuestionTypeDate, model.QuestionTypeBoolean:
			// Keep as-is.
		case model.QuestionTypeSingleSelect, model.QuestionTypeMultiSelect:
			if len(g.Options) == 0 {
				qType = model.QuestionTypeText
			}
		default:
			qType = model.QuestionTypeText
		}

		q := model.Question{
			ID:          uuid.New().String(),
			Title:       g.Title,
			Description: g.Description,
			Type:        qType,
		}
		if qType == model.QuestionTypeSingleSelect || qType == model.QuestionTypeMultiSelect {
			q.Options = g.Options
		}
		questions = append(questions, q)
	}
	return questions, nil
}
