package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck() bool
}

// HealthController handles the health endpoint.
type HealthController struct {
	database HealthChecker
}

// NewHealthController creates a new health controller instance.
func NewHealthController(database HealthChecker) *HealthController {
	return &HealthController{
		database: database,
	}
}

// Health handles GET /health requests.
func (c *HealthController) Health(ctx *gin.Context) {
	dbStatus := "up"
	status := http.StatusOK
	if c.database != nil && !c.database.HealthCheck() {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
