package errors

import (
	"net/http"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
)

var (
	ErrNoPayrollIDs = apperror.New(
		apperror.CodeValidationError,
		"at least one payroll id is required",
		http.StatusBadRequest,
	)

	ErrNoPendingPayrolls = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"none of the given payroll records are pending payment",
		http.StatusUnprocessableEntity,
	)

	ErrMissingBankTransaction = apperror.New(
		apperror.CodeInvalidState,
		"payroll record has no bank transaction to reverse",
		http.StatusUnprocessableEntity,
	)
)
