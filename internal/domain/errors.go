package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// OrchestratorError is an error carrying an HTTP-like status code. The
// envelope layer maps the code onto the response status; errors without a
// code default to 500.
type OrchestratorError struct {
	Code    int
	Message string
}

func (e *OrchestratorError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return e.Message
}

// BadRequest builds a 400-class orchestrator error.
func BadRequest(format string, args ...any) *OrchestratorError {
	return &OrchestratorError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an orchestrator error with an explicit status code.
func Errorf(code int, format string, args ...any) *OrchestratorError {
	return &OrchestratorError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// StatusOf extracts the status code from an error chain, defaulting to 500.
func StatusOf(err error) int {
	var oe *OrchestratorError
	if errors.As(err, &oe) && oe.Code > 0 {
		return oe.Code
	}
	return http.StatusInternalServerError
}
