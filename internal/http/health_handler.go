package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daily-diet/internal/db"
)

// HealthHandler expone el chequeo de vida del servicio.
type HealthHandler struct {
	logger *zap.Logger
	pool   *pgxpool.Pool
}

func NewHealthHandler(logger *zap.Logger, pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{logger: logger, pool: pool}
}

// Health maneja GET /healthz: verifica conectividad con la base de datos.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, h.pool); err != nil {
			h.logger.Warn("health ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
