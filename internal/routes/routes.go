package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motoria/dealer-agent/internal/agent"
	"github.com/motoria/dealer-agent/internal/api/chat"
	"github.com/motoria/dealer-agent/internal/catalog"
	"github.com/motoria/dealer-agent/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, pipeline *agent.Pipeline, store *catalog.Store, db *catalog.PostgresClient) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// Setup route groups
	SetupHealthRoutes(router, store, db)
	chat.RegisterRoutes(router, pipeline)
	Setup404Handler(router)
}

// Setup404Handler configures the 404 handler
func Setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
			"path":    c.Request.URL.Path,
		})
	})
}
