package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheckController serves the liveness probe
type HealthCheckController struct{}

// NewHealthCheckController creates a health check controller
func NewHealthCheckController() *HealthCheckController {
	return &HealthCheckController{}
}

// Ping is the health check endpoint
func (h *HealthCheckController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}
