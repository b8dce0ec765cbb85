package balanceerrors

import (
	"net/http"

	"github.com/Amserna/admin/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"no leave balance allocated for this employee and year",
		http.StatusNotFound,
	)
	// ErrBalanceExhausted is the underflow guard tripping inside a decision
	// transaction. It is a storage-class fault: intake already pre-checked
	// sufficiency, so reaching this means state drifted between submission
	// and final approval.
	ErrBalanceExhausted = apperror.New(
		apperror.CodeInternalError,
		"leave balance would go negative, deduction refused",
		http.StatusInternalServerError,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeConflict,
		"remaining leave balance is smaller than the requested days",
		http.StatusConflict,
	)
	ErrNotBalanceOwner = apperror.New(
		apperror.CodeForbidden,
		"employees may only view their own leave balance",
		http.StatusForbidden,
	)
	ErrInvalidAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"total_days must cover the days already used",
		http.StatusBadRequest,
	)
)
