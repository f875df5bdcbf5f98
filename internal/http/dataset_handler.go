package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diabetes-risk/internal/service"
)

// DatasetHandler expone las vistas de exploracion del dataset.
type DatasetHandler struct {
	logger  *zap.Logger
	dataset *service.DatasetService
}

func NewDatasetHandler(logger *zap.Logger, dataset *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{logger: logger, dataset: dataset}
}

// Summary maneja GET /api/v1/dataset/summary.
func (h *DatasetHandler) Summary(c *gin.Context) {
	sum, err := h.dataset.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": sum})
}

// Diabetes maneja GET /api/v1/dataset/diabetes.
func (h *DatasetHandler) Diabetes(c *gin.Context) {
	dist, err := h.dataset.DiabetesDistribution(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"distribution": dist})
}

// BMI maneja GET /api/v1/dataset/bmi.
func (h *DatasetHandler) BMI(c *gin.Context) {
	stats, err := h.dataset.BMIByDiabetes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bmi": stats})
}

func (h *DatasetHandler) RiskFactors(c *gin.Context) {
	factors, err := h.dataset.RiskFactors(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"risk_factors": factors})
}

// Crosstab maneja GET /api/v1/dataset/risk-factors/:column.
func (h *DatasetHandler) Crosstab(c *gin.Context) {
	ct, err := h.dataset.Crosstab(c.Request.Context(), c.Param("column"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crosstab": ct})
}
