package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/response"
	"github.com/insightflow/insightflow-backend/internal/service"
	"github.com/insightflow/insightflow-backend/internal/validator"
)

// AIHandler handles AI-assisted question generation.
type AIHandler struct {
	aiService *service.AIService
	log       zerolog.Logger
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(aiService *service.AIService, log zerolog.Logger) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		log:       log.With().Str("component", "ai_handler").Logger(),
	}
}

// GenerateQuestions godoc
// POST /api/v1/ai/questions
// Produces draft questions for a topic. Generated questions are returned
// to the builder, never persisted directly.
func (h *AIHandler) GenerateQuestions(c *gin.Context) {
	var req model.GenerateQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.aiService.GenerateQuestions(c.Request.Context(), req.Topic, req.Count)
	if err != nil {
		if errors.Is(err, service.ErrAINotConfigured) {
			response.Fail(c, http.StatusServiceUnavailable, response.ErrAINotConfigured)
			return
		}
		h.log.Warn().Err(err).Msg("Question generation failed")
		response.Fail(c, http.StatusBadGateway, response.ErrAIGenerationFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}
