// Package errors provides RFC 7807 Problem Details for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 response body. It doubles as an error so services
// can return a ready-made problem.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Extensions carries problem-specific members such as allowedNext on order conflicts.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	if p.Extensions == nil {
		p.Extensions = make(map[string]any)
	}
	p.Extensions[key] = value
	return p
}

// Common problem types as URI references.
const (
	TypeValidation    = "/problems/validation-error"
	TypeNotFound      = "/problems/not-found"
	TypeConflict      = "/problems/conflict"
	TypeInternal      = "/problems/internal-error"
	TypeUnauthorized  = "/problems/unauthorized"
	TypeForbidden     = "/problems/forbidden"
	TypeBadRequest    = "/problems/bad-request"
	TypeUnprocessable = "/problems/unprocessable-entity"
	TypeTooLarge      = "/problems/payload-too-large"
	TypeBadGateway    = "/problems/bad-gateway"
	TypeUnavailable   = "/problems/service-unavailable"
)

// Problem templates. Callers derive occurrences with the With* copies.
var (
	ErrNotFound      = template(TypeNotFound, "Resource Not Found", http.StatusNotFound)
	ErrValidation    = template(TypeValidation, "Validation Error", http.StatusBadRequest)
	ErrBadRequest    = template(TypeBadRequest, "Bad Request", http.StatusBadRequest)
	ErrConflict      = template(TypeConflict, "Conflict", http.StatusConflict)
	ErrInternal      = template(TypeInternal, "Internal Server Error", http.StatusInternalServerError)
	ErrUnauthorized  = template(TypeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrForbidden     = template(TypeForbidden, "Forbidden", http.StatusForbidden)
	ErrUnprocessable = template(TypeUnprocessable, "Unprocessable Entity", http.StatusUnprocessableEntity)
	ErrTooLarge      = template(TypeTooLarge, "Payload Too Large", http.StatusRequestEntityTooLarge)
	// ErrBadGateway reports a storage or downstream dependency that rejected the request.
	ErrBadGateway = template(TypeBadGateway, "Bad Gateway", http.StatusBadGateway)
	// ErrUnavailable reports a dependency that could not be reached at all.
	ErrUnavailable = template(TypeUnavailable, "Service Unavailable", http.StatusServiceUnavailable)
)

func template(typ, title string, status int) ProblemDetail {
	return ProblemDetail{Type: typ, Title: title, Status: status}
}

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}

// NewConflictProblem creates a conflict error. Non-empty allowed values are
// exposed as the allowedNext extension.
func NewConflictProblem(detail string, allowedNext ...string) ProblemDetail {
	problem := ErrConflict.WithDetail(detail)
	if len(allowedNext) > 0 {
		problem = problem.WithExtension("allowedNext", allowedNext)
	}
	return problem
}
