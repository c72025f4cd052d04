package http

import (
	"errors"
	"net/http"

	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/retry"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFromError maps the application error kinds onto HTTP status codes.
// Unknown errors surface as 500 without leaking their message.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, errs.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrUnavailable), errors.Is(err, retry.ErrTransient):
		// a transient marker that escaped its retry loop still means
		// "try again", not "server bug"
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) (int, ErrorResponse) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	return status, ErrorResponse{Code: status, Message: message}
}
