package chat

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/utils"
)

type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) Chat(ctx *gin.Context) {
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Zlog.Warn("invalid /chat payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":     "bad_request",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	result, err := c.service.ProcessMessage(ctx.Request.Context(), &req)
	if err != nil {
		utils.Zlog.Error("chat pipeline failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":     "internal_error",
			"message":   "Sorry, I had trouble processing your request. Please try again.",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	if idVal, exists := ctx.Get("request_id"); exists {
		if rid, ok := idVal.(string); ok {
			result.RequestID = rid
		}
	}

	ctx.JSON(http.StatusOK, result)
}
