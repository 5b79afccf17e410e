package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"daily-diet/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	mealH *MealHandler,
	healthH *HealthHandler,
	sessions *service.SessionService,
	limiter service.RequestRateLimiter,
	cookieName string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y métricas. El Content-Type lo
	// pone cada handler (c.JSON para la API, promhttp para /metrics).
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), PromMetricsMiddleware())
	if limiter != nil {
		r.Use(RateLimitMiddleware(limiter, cookieName))
	}

	r.GET("/healthz", healthH.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// POST /meals es la única ruta de comidas sin sesión obligatoria.
	meals := r.Group("/meals")
	meals.POST("", mealH.CreateMeal)

	authed := meals.Group("", SessionAuthMiddleware(cookieName, sessions))
	authed.GET("", mealH.ListMeals)
	authed.GET("/metrics", mealH.MealMetrics)
	authed.GET("/:id", mealH.GetMeal)
	authed.PUT("/:id", mealH.UpdateMeal)
	authed.DELETE("/:id", mealH.DeleteMeal)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
