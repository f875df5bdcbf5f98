package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch: el perfil no satisface el schema configurado.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrOutOfDomain: el valor existe pero cae fuera del dominio de la columna.
	ErrOutOfDomain = errors.New("value out of domain")
	// ErrClassifierUnavailable: el artefacto falta o esta corrupto.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrInvalidPrediction: el clasificador devolvio algo fuera de contrato.
	ErrInvalidPrediction  = errors.New("invalid prediction")
	ErrUnknownSchema      = errors.New("unknown feature schema")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrSimulationDisabled = errors.New("simulation disabled")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)

// FieldError asocia un error del encoder a la columna que lo produjo.
type FieldError struct {
	Column string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: column %s: %s", e.Err, e.Column, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }
