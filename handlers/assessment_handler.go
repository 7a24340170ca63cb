package handlers

import (
	"errors"
	"io"
	"net/http"

	"pcosguard-backend/models"
	"pcosguard-backend/service"

	"github.com/gin-gonic/gin"
)

// AssessmentHandler handles HTTP requests for assessments
type AssessmentHandler struct {
	controller *service.Controller
	form       *SharedForm
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(controller *service.Controller, form *SharedForm) *AssessmentHandler {
	return &AssessmentHandler{
		controller: controller,
		form:       form,
	}
}

// RunAssessment handles POST /api/assessments.
// The body may carry a full inputs snapshot; without one the current form is submitted.
func (h *AssessmentHandler) RunAssessment(c *gin.Context) {
	inputs := h.form.Values()

	var body models.AssessmentInputs
	if err := c.ShouldBindJSON(&body); err != nil {
		if !errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	} else {
		// BMI is never taken from the caller
		inputs = service.NormalizeInputs(body)
	}

	result, err := h.controller.RunTest(c.Request.Context(), inputs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSession):
			respondError(c, http.StatusUnauthorized, "NO_SESSION", err.Error())
		case errors.Is(err, service.ErrBusy):
			respondError(c, http.StatusConflict, "ANALYSIS_IN_PROGRESS", err.Error())
		default:
			respondError(c, http.StatusBadGateway, "ANALYSIS_FAILED", service.AnalysisFailedNotice)
		}
		return
	}

	respondOK(c, http.StatusCreated, result)
}

// ListAssessments handles GET /api/assessments
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	state := h.controller.Snapshot()
	if state.User == nil {
		respondError(c, http.StatusUnauthorized, "NO_SESSION", service.ErrNoSession.Error())
		return
	}
	respondOK(c, http.StatusOK, state.Results)
}

// GetAssessment handles GET /api/assessments/:id
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	result, err := h.controller.FindResult(c.Param("id"))
	if err != nil {
		respondResultError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// OpenAssessment handles POST /api/assessments/:id/open and shows the result
func (h *AssessmentHandler) OpenAssessment(c *gin.Context) {
	result, err := h.controller.OpenResult(c.Param("id"))
	if err != nil {
		respondResultError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

func respondResultError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoSession) {
		respondError(c, http.StatusUnauthorized, "NO_SESSION", err.Error())
		return
	}
	respondError(c, http.StatusNotFound, "NOT_FOUND", "Assessment not found")
}
