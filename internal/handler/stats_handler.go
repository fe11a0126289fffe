package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/insightflow/insightflow-backend/internal/middleware"
	"github.com/insightflow/insightflow-backend/internal/response"
	"github.com/insightflow/insightflow-backend/internal/service"
)

// StatsHandler handles aggregation endpoints: per-question distributions
// and the account usage dashboard.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// QuestionStats godoc
// GET /api/v1/questionnaires/:id/stats
func (h *StatsHandler) QuestionStats(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	stats, err := h.statsService.QuestionStats(c.Request.Context(), claims.UserID, id)
	if err != nil {
		failQuestionnaireError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// ProjectUsage godoc
// GET /api/v1/projects/:id/usage
func (h *StatsHandler) ProjectUsage(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	usage, err := h.statsService.ProjectUsage(c.Request.Context(), claims.UserID, id)
	if err != nil {
		failProjectError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"usage": usage})
}

// Usage godoc
// GET /api/v1/usage
// Summarizes the account's projects, questionnaires, responses, and the
// six-month response trend.
func (h *StatsHandler) Usage(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	usage, err := h.statsService.Usage(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"usage": usage})
}
