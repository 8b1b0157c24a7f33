package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motoria/dealer-agent/internal/catalog"
	"github.com/motoria/dealer-agent/internal/controllers"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, store *catalog.Store, db *catalog.PostgresClient) {
	healthController := controllers.NewHealthController(store, db)

	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	router.GET("/health", healthController.HealthCheck)
	router.GET("/health/live", healthController.Liveness)
	router.GET("/health/ready", healthController.Readiness)
}
