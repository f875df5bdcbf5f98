package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	gatherer prometheus.Gatherer,
	allowedOrigins []string,
	healthH *HealthHandler,
	assessH *AssessmentHandler,
	datasetH *DatasetHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		limitBodySize(maxBodyBytes),
		cors.New(corsConfig(allowedOrigins)),
	)

	r.GET("/healthz", healthH.Healthz)
	r.GET("/readyz", healthH.Readyz)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1", jsonContentTypeMiddleware())
	api.GET("/schemas", assessH.ListSchemas)
	api.POST("/features/encode", assessH.Encode)

	assessments := api.Group("/assessments")
	assessments.GET("/status", assessH.Status)
	assessments.POST("", assessH.CreateAssessment)
	assessments.POST("/simulate", assessH.SimulateAssessment)

	api.POST("/recommendations", assessH.Recommend)

	dataset := api.Group("/dataset")
	dataset.GET("/summary", datasetH.Summary)
	dataset.GET("/diabetes", datasetH.Diabetes)
	dataset.GET("/bmi", datasetH.BMI)
	dataset.GET("/risk-factors", datasetH.RiskFactors)
	dataset.GET("/risk-factors/:column", datasetH.Crosstab)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
