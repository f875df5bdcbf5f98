package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diabetes-risk/internal/domain"
	"diabetes-risk/internal/service"
)

// AssessmentHandler expone codificacion, prediccion y consejos.
type AssessmentHandler struct {
	logger      *zap.Logger
	schemas     *service.SchemaRegistry
	risk        *service.RiskService
	assessments *service.AssessmentService
	advisor     *service.RecommendationService
}

func NewAssessmentHandler(
	logger *zap.Logger,
	schemas *service.SchemaRegistry,
	risk *service.RiskService,
	assessments *service.AssessmentService,
	advisor *service.RecommendationService,
) *AssessmentHandler {
	return &AssessmentHandler{
		logger:      logger,
		schemas:     schemas,
		risk:        risk,
		assessments: assessments,
		advisor:     advisor,
	}
}

// ListSchemas maneja GET /api/v1/schemas.
func (h *AssessmentHandler) ListSchemas(c *gin.Context) {
	out := make([]domain.FeatureSchema, 0)
	for _, name := range h.schemas.Names() {
		s, err := h.schemas.Get(name)
		if err != nil {
			writeError(c, err)
			return
		}
		out = append(out, s)
	}
	c.JSON(http.StatusOK, gin.H{
		"active":  h.risk.Schema().Name,
		"schemas": out,
	})
}

// Status maneja GET /api/v1/assessments/status.
func (h *AssessmentHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"prediction_enabled": h.risk.PredictionEnabled(),
		"simulation_enabled": h.risk.SimulationEnabled(),
		"advisor_configured": h.advisor.Configured(),
		"schema":             h.risk.Schema().Name,
	})
}

// Encode maneja POST /api/v1/features/encode.
func (h *AssessmentHandler) Encode(c *gin.Context) {
	var profile domain.RawHealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.logger.Warn("invalid encode request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	vec, err := h.risk.Encode(profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": vec})
}

// CreateAssessment maneja POST /api/v1/assessments?advice=true.
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	withAdvice, ok := adviceParam(c)
	if !ok {
		return
	}
	var profile domain.RawHealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.logger.Warn("invalid assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.assessments.Assess(c.Request.Context(), c.ClientIP(), profile, withAdvice)
	if err != nil {
		h.logger.Warn("assessment failed", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": a, "prediction_enabled": true})
}

// SimulateAssessment maneja POST /api/v1/assessments/simulate.
func (h *AssessmentHandler) SimulateAssessment(c *gin.Context) {
	withAdvice, ok := adviceParam(c)
	if !ok {
		return
	}
	var profile domain.RawHealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.logger.Warn("invalid simulate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.assessments.Simulate(c.Request.Context(), c.ClientIP(), profile, withAdvice)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": a, "simulated": true})
}

// Recommend maneja POST /api/v1/recommendations.
func (h *AssessmentHandler) Recommend(c *gin.Context) {
	var req struct {
		Profile  domain.RawHealthProfile `json:"profile"`
		HighRisk *bool                   `json:"high_risk" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recommendation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	rec := h.advisor.Recommend(c.Request.Context(), c.ClientIP(), service.SummaryFor(req.Profile, *req.HighRisk))
	c.JSON(http.StatusOK, gin.H{"recommendation": rec})
}

func adviceParam(c *gin.Context) (bool, bool) {
	raw := c.Query("advice")
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "advice must be true or false"})
		return false, false
	}
	return v, true
}
