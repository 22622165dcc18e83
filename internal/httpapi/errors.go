package httpapi

import (
	"errors"
	"net/http"

	"vecsearch/internal/rag/service"
)

// statusFromError maps the service error taxonomy (spec.md §4.5.4) onto
// HTTP status codes. Unrecognized errors are treated as InternalError.
func statusFromError(err error) int {
	var validationErr *service.ValidationError
	var dependencyErr *service.DependencyError
	var timeoutErr *service.TimeoutError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &dependencyErr):
		return http.StatusBadGateway
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
