package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the health check and the API on r
func RegisterRoutes(r *gin.Engine, session *SessionHandler, form *FormHandler, assessments *AssessmentHandler) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		// Session endpoints
		api.GET("/state", session.GetState)
		api.POST("/signup/begin", session.BeginSignUp)
		api.POST("/signup/cancel", session.CancelSignUp)
		api.POST("/signup", session.SignUp)
		api.POST("/logout", session.Logout)
		api.POST("/navigate", session.Navigate)

		// Intake form endpoints
		api.GET("/form", form.GetForm)
		api.PATCH("/form", form.UpdateForm)
		api.POST("/form/reset", form.ResetForm)

		// Assessment endpoints
		api.POST("/assessments", assessments.RunAssessment)
		api.GET("/assessments", assessments.ListAssessments)
		api.GET("/assessments/:id", assessments.GetAssessment)
		api.POST("/assessments/:id/open", assessments.OpenAssessment)

		// Outbound links
		api.GET("/links/doctor", session.DoctorLink)
		api.GET("/links/awareness", session.AwarenessLink)
	}
}
