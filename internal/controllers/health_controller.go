package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/catalog"
	"github.com/motoria/dealer-agent/internal/utils"
)

type HealthController struct {
	store *catalog.Store
	db    *catalog.PostgresClient // nil when the catalog is loaded from CSV
}

func NewHealthController(store *catalog.Store, db *catalog.PostgresClient) *HealthController {
	return &HealthController{store: store, db: db}
}

// HealthCheck reports whether the service can answer queries: the catalog
// must be loaded, and when Postgres backs it the connection must respond.
func (h *HealthController) HealthCheck(c *gin.Context) {
	if h.store.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"catalog":   "empty",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			utils.Zlog.Error("Database health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"database":  "down",
				"timestamp": time.Now().UTC(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"vehicles":  h.store.Len(),
		"timestamp": time.Now().UTC(),
	})
}

// Liveness reports that the process is running.
func (h *HealthController) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// Readiness reports whether the service is ready to serve traffic.
func (h *HealthController) Readiness(c *gin.Context) {
	if h.store.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"catalog":   "empty",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"vehicles":  h.store.Len(),
		"timestamp": time.Now().UTC(),
	})
}
