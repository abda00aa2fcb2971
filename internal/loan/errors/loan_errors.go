package loanerrors

import (
	"net/http"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
)

var (
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"Loan not found",
		http.StatusNotFound,
	)

	ErrInvalidPrincipal = apperror.New(
		apperror.CodeValidationError,
		"Loan principal must be greater than zero",
		http.StatusBadRequest,
	)

	ErrInvalidDuration = apperror.New(
		apperror.CodeValidationError,
		"Loan duration must be at least one month",
		http.StatusBadRequest,
	)

	ErrLoanAlreadyCompleted = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"Loan is already fully repaid",
		http.StatusUnprocessableEntity,
	)
)
