package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain error taxonomy. Services return these; the HTTP layer translates them
// to status codes with errors.As. NotFound and BadRequest messages are safe to
// expose; Forbidden messages for cross-tenant access stay non-identifying.

// NotFoundError signals a missing or soft-deleted entity.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound builds a NotFoundError for the given resource and id.
func NewNotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError signals an authenticated but unauthorized operation:
// cross-tenant order access or a role-blocked status transition.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewForbidden builds a ForbiddenError with the given message.
func NewForbidden(format string, args ...interface{}) error {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

// BadRequestError signals malformed input, an invalid status transition, or a
// persistence constraint violation translated to a domain message.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

// NewBadRequest builds a BadRequestError with the given message.
func NewBadRequest(format string, args ...interface{}) error {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied is the fixed, non-identifying message returned on
// cross-tenant order access. It must not reveal who owns the order.
const ErrAccessDenied = "access denied to this order"

// HTTPStatus maps a domain error to the status code the HTTP layer should
// respond with. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var nf *NotFoundError
	var fb *ForbiddenError
	var br *BadRequestError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &fb):
		return http.StatusForbidden
	case errors.As(err, &br):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
