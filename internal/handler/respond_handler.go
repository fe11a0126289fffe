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

// passcodeHeader carries the respondent's passcode on public survey
// requests. Browsers following a shared link can also send ?pass= as a
// fallback; the header wins when both are present.
const passcodeHeader = "X-Survey-Passcode"

func passcodeFrom(c *gin.Context) string {
	if pass := c.GetHeader(passcodeHeader); pass != "" {
		return pass
	}
	return c.Query("pass")
}

// RespondHandler handles the public, unauthenticated respondent flow.
type RespondHandler struct {
	responseService *service.ResponseService
}

// NewRespondHandler creates a new RespondHandler.
func NewRespondHandler(responseService *service.ResponseService) *RespondHandler {
	return &RespondHandler{responseService: responseService}
}

// GetSurvey godoc
// GET /api/v1/public/surveys/:id
// Returns the respondent-facing payload of a published survey. For
// passcode-protected surveys the questions are withheld until the correct
// passcode arrives in the X-Survey-Passcode header; title and description
// are still returned so the gate screen can render.
func (h *RespondHandler) GetSurvey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.responseService.FetchSurvey(c.Request.Context(), id)
	if err != nil {
		failSurveyError(c, err)
		return
	}

	if payload.RequiresPasscode {
		if err := h.responseService.CheckPasscode(c.Request.Context(), id, passcodeFrom(c)); err != nil {
			if errors.Is(err, service.ErrPasscodeRequired) || errors.Is(err, service.ErrPasscodeRejected) {
				gated := *payload
				gated.Questions = nil
				response.Success(c, http.StatusOK, gin.H{"survey": gated})
				return
			}
			failSurveyError(c, err)
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"survey": payload})
}

// VerifyPasscode godoc
// POST /api/v1/public/surveys/:id/passcode
// Checks a passcode without fetching questions. A wrong passcode simply
// reports rejection; there is no lockout.
func (h *RespondHandler) VerifyPasscode(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req struct {
		Passcode string `json:"passcode" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.responseService.CheckPasscode(c.Request.Context(), id, req.Passcode); err != nil {
		failSurveyError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"valid": true})
}

// Submit godoc
// POST /api/v1/public/surveys/:id/responses
// Accepts a respondent's answers. Required and visibility checks are
// re-run server side; answers to hidden questions are stored as given.
func (h *RespondHandler) Submit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitResponseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.responseService.Submit(c.Request.Context(), id, passcodeFrom(c), req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			fields := make(map[string]string, len(ve.Fields))
			for qid, kind := range ve.Fields {
				fields[qid] = string(kind)
			}
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrRequiredFields, fields)
			return
		}
		failSurveyError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"response_id":  resp.ID,
		"submitted_at": resp.SubmittedAt,
	})
}

func failSurveyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNotPublished):
		// Drafts are indistinguishable from missing surveys to respondents.
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrPasscodeRequired):
		response.Fail(c, http.StatusUnauthorized, response.ErrPasscodeRequired)
	case errors.Is(err, service.ErrPasscodeRejected):
		response.Fail(c, http.StatusUnauthorized, response.ErrPasscodeRejected)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
