package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	mealsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meals_created_total",
			Help: "Total number of meals created",
		},
		[]string{"on_diet"},
	)
)

// PromMetricsMiddleware registra métricas Prometheus por petición HTTP.
// Usa la ruta con parámetros (/meals/:id) como label para no explotar la
// cardinalidad con ids reales.
func PromMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordMealCreated registra la métrica de comidas creadas.
func RecordMealCreated(isOnDiet bool) {
	onDiet := "false"
	if isOnDiet {
		onDiet = "true"
	}
	mealsCreatedTotal.WithLabelValues(onDiet).Inc()
}
