package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoCredential: no hay API key configurada. Es una condicion normal.
	ErrNoCredential      = errors.New("llm credential not configured")
	ErrRateLimited       = errors.New("llm rate limited")
	ErrInvalidCredential = errors.New("llm credential invalid")
	ErrPermissionDenied  = errors.New("llm permission denied")
	ErrEmptyResponse     = errors.New("llm empty response")
)

// APIError es una respuesta de error del proveedor.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error: status=%d: %s", e.Provider, e.StatusCode, e.Message)
}

// Unwrap traduce el status y el mensaje a los sentinels de este paquete,
// para que los llamadores usen errors.Is.
func (e *APIError) Unwrap() error {
	msg := strings.ToLower(e.Message)
	switch {
	case e.StatusCode == http.StatusTooManyRequests,
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "resource_exhausted"):
		return ErrRateLimited
	case e.StatusCode == http.StatusUnauthorized,
		strings.Contains(msg, "api key"),
		strings.Contains(msg, "api_key"),
		strings.Contains(msg, "invalid"):
		return ErrInvalidCredential
	case e.StatusCode == http.StatusForbidden,
		strings.Contains(msg, "permission"):
		return ErrPermissionDenied
	}
	return nil
}
