package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("conflict")
	ErrConfiguration      = errors.New("configuration error")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Kind maps an error to a machine-readable kind string used in responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrNotFound):
		return "not_found"

	case errors.Is(err, ErrBadRequest):
		return "bad_request"

	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"

	case errors.Is(err, ErrConflict):
		return "conflict"

	case errors.Is(err, ErrConfiguration):
		return "configuration"

	case errors.Is(err, ErrGatewayUnavailable):
		return "gateway_unavailable"

	default:
		return "internal"
	}
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, ErrConflict):
		return http.StatusConflict

	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError

	case errors.Is(err, ErrGatewayUnavailable):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
