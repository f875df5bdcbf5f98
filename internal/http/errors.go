package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"diabetes-risk/internal/domain"
)

// writeError traduce errores de dominio a status HTTP. Un clasificador caido
// responde 503 sin etiqueta para no sugerir una prediccion.
func writeError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		body["column"] = fe.Column
	}

	switch {
	case errors.Is(err, domain.ErrClassifierUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":              "classifier unavailable",
			"prediction_enabled": false,
		})
	case errors.Is(err, domain.ErrSchemaMismatch), errors.Is(err, domain.ErrOutOfDomain):
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, domain.ErrUnknownColumn), errors.Is(err, domain.ErrUnknownSchema):
		c.JSON(http.StatusNotFound, body)
	case errors.Is(err, domain.ErrSimulationDisabled):
		c.JSON(http.StatusForbidden, body)
	case errors.Is(err, domain.ErrDatasetUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
