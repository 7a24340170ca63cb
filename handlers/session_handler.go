package handlers

import (
	"errors"
	"net/http"

	"pcosguard-backend/models"
	"pcosguard-backend/service"

	"github.com/gin-gonic/gin"
)

// recentResultsCount is how many results the dashboard previews
const recentResultsCount = 3

// SessionHandler handles HTTP requests for the session and its views
type SessionHandler struct {
	controller *service.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *service.Controller) *SessionHandler {
	return &SessionHandler{controller: controller}
}

// GetState handles GET /api/state
func (h *SessionHandler) GetState(c *gin.Context) {
	state := h.controller.Snapshot()
	respondOK(c, http.StatusOK, gin.H{
		"state":  state,
		"recent": h.controller.RecentResults(recentResultsCount),
	})
}

// BeginSignUp handles POST /api/signup/begin
func (h *SessionHandler) BeginSignUp(c *gin.Context) {
	if err := h.controller.BeginSignUp(); err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	respondOK(c, http.StatusOK, h.controller.Snapshot())
}

// CancelSignUp handles POST /api/signup/cancel
func (h *SessionHandler) CancelSignUp(c *gin.Context) {
	if err := h.controller.CancelSignUp(); err != nil {
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	respondOK(c, http.StatusOK, h.controller.Snapshot())
}

// SignUpRequest represents the request body for signing up
type SignUpRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// SignUp handles POST /api/signup
func (h *SessionHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.controller.SignUp(c.Request.Context(), service.SignUpRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignUp):
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "SIGNUP_FAILED", err.Error())
		}
		return
	}

	respondOK(c, http.StatusCreated, user)
}

// Logout handles POST /api/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.controller.Logout(c.Request.Context())
	respondOK(c, http.StatusOK, h.controller.Snapshot())
}

// NavigateRequest represents the request body for switching views
type NavigateRequest struct {
	View string `json:"view" binding:"required"`
}

// Navigate handles POST /api/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.controller.Navigate(models.View(req.View)); err != nil {
		switch {
		case errors.Is(err, service.ErrNoSession):
			respondError(c, http.StatusUnauthorized, "NO_SESSION", err.Error())
		case errors.Is(err, service.ErrResultNotFound):
			respondError(c, http.StatusConflict, "NO_RESULT_SELECTED", err.Error())
		default:
			respondError(c, http.StatusBadRequest, "INVALID_VIEW", err.Error())
		}
		return
	}

	respondOK(c, http.StatusOK, h.controller.Snapshot())
}

// DoctorLink handles GET /api/links/doctor
func (h *SessionHandler) DoctorLink(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"url": service.DoctorSearchURL(c.Query("specialty")),
	})
}

// AwarenessLink handles GET /api/links/awareness
func (h *SessionHandler) AwarenessLink(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"url": service.AwarenessURL(),
	})
}
