package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhoicas/gncci-portal/internal/domain"
)

// Códigos de PostgREST / Postgres que se traducen a errores de dominio.
const (
	codeNoRows           = "PGRST116"
	codeUniqueViolation  = "23505"
	codeInsufficientPriv = "42501"
)

// Error error devuelto por el backend. Error() es el mensaje del backend sin modificar,
// que es lo que ve el usuario.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is permite errors.Is(err, domain.ErrX).
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Code == codeNoRows || e.Status == http.StatusNotFound
	case domain.ErrDuplicate:
		return e.Code == codeUniqueViolation || e.Status == http.StatusConflict
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden || e.Code == codeInsufficientPriv
	case domain.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// parseError interpreta el cuerpo de error de PostgREST o de GoTrue.
func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}
	e.Message = firstString(raw, "message", "msg", "error_description", "error")
	e.Code = firstString(raw, "error_code", "code", "error")
	e.Details = firstString(raw, "details")
	e.Hint = firstString(raw, "hint")
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// networkError envuelve un fallo de transporte como domain.ErrNetwork conservando la causa.
type networkError struct {
	cause error
}

func (e *networkError) Error() string { return domain.ErrNetwork.Error() }
func (e *networkError) Unwrap() []error { return []error{domain.ErrNetwork, e.cause} }

// IsNetwork indica si err es un fallo de transporte.
func IsNetwork(err error) bool { return errors.Is(err, domain.ErrNetwork) }
