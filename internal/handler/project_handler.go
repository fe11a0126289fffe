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

// ProjectHandler handles project CRUD endpoints.
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List godoc
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}

	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

// Get godoc
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), claims.UserID, projectID)
	if err != nil {
		failProjectError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": project})
}

// Create godoc
// POST /api/v1/projects
// Enforces the free plan's project cap.
func (h *ProjectHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateProjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, service.ErrProjectLimit) {
			response.Fail(c, http.StatusForbidden, response.ErrProjectLimit)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"project": project})
}

// Update godoc
// PATCH /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateProjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), claims.UserID, projectID, req)
	if err != nil {
		failProjectError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": project})
}

// Delete godoc
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), claims.UserID, projectID); err != nil {
		failProjectError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func failProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
