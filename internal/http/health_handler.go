package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck reporta el estado de una dependencia; nil es listo.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler atiende /healthz y /readyz.
type HealthHandler struct {
	checks map[string]ReadinessCheck
}

func NewHealthHandler(checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz responde 503 si alguna dependencia falla. El clasificador caido no
// tumba el servicio: la API sigue sirviendo el resto de rutas.
func (h *HealthHandler) Readyz(c *gin.Context) {
	status := http.StatusOK
	details := gin.H{}
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			details[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		details[name] = "ok"
	}
	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": details})
}
