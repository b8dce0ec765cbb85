package apperror

import "net/http"

// Cross-cutting sentinels used by the middleware chain and as the fallback
// shape for errors no feature package claims.
var (
	ErrNotFound = New(
		CodeNotFound,
		"resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"permission denied for this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"an unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"authentication required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"the provided input is invalid",
		http.StatusBadRequest,
	)
)
