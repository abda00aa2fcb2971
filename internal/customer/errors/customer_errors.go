package customererrors

import (
	"net/http"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
)

var (
	ErrCustomerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Customer not found",
		http.StatusNotFound,
	)

	ErrNonPositiveAmount = apperror.New(
		apperror.CodeValidationError,
		"Amount must be greater than zero",
		http.StatusBadRequest,
	)

	ErrDecreaseExceedsBalance = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"Decrease amount exceeds the outstanding credit balance",
		http.StatusUnprocessableEntity,
	)

	ErrCreditAccountDisabled = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"Customer does not have an enabled credit account",
		http.StatusUnprocessableEntity,
	)

	ErrInsufficientCredit = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"Customer does not have sufficient available credit",
		http.StatusUnprocessableEntity,
	)
)
