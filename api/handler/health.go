package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/focusmode/models"
)

// Health returns a handler for GET /health.
func Health(provider string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   "healthy",
			Message:  "Focus Mode Accessibility Tool API is running",
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Version:  models.Version,
			Provider: provider,
		})
	}
}

// Index returns a handler for GET /.
func Index() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.IndexResponse{
			Name:    "Focus Mode Accessibility Tool API",
			Version: models.Version,
			Status:  "running",
			Endpoints: map[string]string{
				"health":   "/health",
				"simplify": "/api/simplify",
				"extract":  "/api/extract",
			},
			Description: "Extracts the main content of a web page and simplifies it for readers with ADHD, dyslexia or cognitive fatigue.",
		})
	}
}
