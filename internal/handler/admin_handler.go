package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/response"
	"github.com/insightflow/insightflow-backend/internal/service"
	"github.com/insightflow/insightflow-backend/internal/validator"
)

// AdminHandler handles platform administration: profile listing and
// plan/role management.
type AdminHandler struct {
	profileService *service.ProfileService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(profileService *service.ProfileService) *AdminHandler {
	return &AdminHandler{profileService: profileService}
}

// ListProfiles godoc
// GET /api/v1/admin/profiles?page=&per_page=
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	profiles, total, err := h.profileService.List(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"profiles": profiles}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// UpdateProfile godoc
// PATCH /api/v1/admin/profiles/:id
// Changes a profile's display name, subscription plan, or role.
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}
