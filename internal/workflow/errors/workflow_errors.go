package workflowerrors

import (
	"net/http"

	"github.com/Amserna/admin/internal/shared/apperror"
)

// The decision taxonomy. The first four are permanent for the same input;
// ErrConcurrencyConflict is retryable after re-reading state.
var (
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"decision is not valid for the request's current stage",
		http.StatusBadRequest,
	)
	ErrUnauthorizedActor = apperror.New(
		apperror.CodeForbidden,
		"actor does not hold the role required at the current stage",
		http.StatusForbidden,
	)
	ErrDuplicateDecision = apperror.New(
		apperror.CodeConflict,
		"actor already recorded a decision at this stage",
		http.StatusConflict,
	)
	ErrTerminalState = apperror.New(
		apperror.CodeInvalidState,
		"request is already closed",
		http.StatusConflict,
	)
	ErrConcurrencyConflict = apperror.New(
		apperror.CodeConflict,
		"request was modified by a concurrent decision, re-read and retry",
		http.StatusConflict,
	)
)
