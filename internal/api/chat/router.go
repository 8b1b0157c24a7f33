package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/motoria/dealer-agent/internal/agent"
)

// RegisterRoutes registers the /chat endpoint.
func RegisterRoutes(router *gin.Engine, pipeline *agent.Pipeline) {
	svc := NewService(pipeline)
	ctrl := NewController(svc)
	router.POST("/chat", ctrl.Chat)
}
