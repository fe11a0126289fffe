package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/insightflow/insightflow-backend/internal/middleware"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/response"
	"github.com/insightflow/insightflow-backend/internal/service"
	"github.com/insightflow/insightflow-backend/internal/validator"
)

// QuestionnaireHandler handles questionnaire CRUD and lifecycle endpoints.
type QuestionnaireHandler struct {
	qnService       *service.QuestionnaireService
	responseService *service.ResponseService
}

// NewQuestionnaireHandler creates a new QuestionnaireHandler.
func NewQuestionnaireHandler(qnService *service.QuestionnaireService, responseService *service.ResponseService) *QuestionnaireHandler {
	return &QuestionnaireHandler{qnService: qnService, responseService: responseService}
}

// List godoc
// GET /api/v1/questionnaires?project_id=...
func (h *QuestionnaireHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		projectID = &id
	}

	questionnaires, err := h.qnService.List(c.Request.Context(), claims.UserID, projectID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if questionnaires == nil {
		questionnaires = []model.Questionnaire{}
	}

	response.Success(c, http.StatusOK, gin.H{"questionnaires": questionnaires})
}

// Get godoc
// GET /api/v1/questionnaires/:id
func (h *QuestionnaireHandler) Get(c *gin.Context) {
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

	q, err := h.qnService.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		failQuestionnaireError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questionnaire": q})
}

// Create godoc
// POST /api/v1/questionnaires
func (h *QuestionnaireHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuestionnaireRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.qnService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failQuestionnaireError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"questionnaire": q})
}

// Update godoc
// PATCH /api/v1/questionnaires/:id
// Questions and settings are replaced wholesale when present.
func (h *QuestionnaireHandler) Update(c *gin.Context) {
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

	var req model.UpdateQuestionnaireRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.qnService.Update(c.Request.Context(), claims.UserID, id, req)
	if err != nil {
		failQuestionnaireError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questionnaire": q})
}

// Delete godoc
// DELETE /api/v1/questionnaires/:id
func (h *QuestionnaireHandler) Delete(c *gin.Context) {
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

	if err := h.qnService.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		failQuestionnaireError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Publish godoc
// POST /api/v1/questionnaires/:id/publish
// Transitions a draft to published and prewarms the survey cache.
func (h *QuestionnaireHandler) Publish(c *gin.Context) {
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

	q, err := h.qnService.Publish(c.Request.Context(), claims.UserID, id)
	if err != nil {
		failQuestionnaireError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questionnaire": q})
}

// Unpublish godoc
// POST /api/v1/questionnaires/:id/unpublish
func (h *QuestionnaireHandler) Unpublish(c *gin.Context) {
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

	q, err := h.qnService.Unpublish(c.Request.Context(), claims.UserID, id)
	if err != nil {
		failQuestionnaireError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questionnaire": q})
}

// ListResponses godoc
// GET /api/v1/questionnaires/:id/responses?page=&per_page=
func (h *QuestionnaireHandler) ListResponses(c *gin.Context) {
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

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	responses, total, err := h.responseService.ListResponses(c.Request.Context(), claims.UserID, id, page, perPage)
	if err != nil {
		failQuestionnaireError(c, err)
		return
	}
	if responses == nil {
		responses = []model.QuestionnaireResponse{}
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"responses": responses}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

func failQuestionnaireError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
	case errors.Is(err, service.ErrNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrNotDraft)
	case errors.Is(err, service.ErrNotPublished):
		response.Fail(c, http.StatusConflict, response.ErrSurveyNotPublished)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
