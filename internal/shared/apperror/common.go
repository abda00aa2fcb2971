package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeValidationError,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

// RequiredField builds a validation error for a missing field
func RequiredField(field string) *AppError {
	return New(
		CodeValidationError,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
	)
}

// InvalidField builds a validation error for a malformed field
func InvalidField(field string) *AppError {
	return New(
		CodeValidationError,
		fmt.Sprintf("%s is invalid", field),
		http.StatusBadRequest,
	)
}

// NotFound builds a resource-specific not-found error
func NotFound(resource string) *AppError {
	return New(
		CodeNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
	)
}

// BusinessRule builds a business-rule violation with context for the caller
func BusinessRule(message string, details any) *AppError {
	e := New(CodeBusinessRuleViolation, message, http.StatusUnprocessableEntity)
	e.Details = details
	return e
}

// InsufficientFunds carries the required and available amounts so the
// caller can react without re-reading the account.
func InsufficientFunds(required, available string) *AppError {
	e := New(
		CodeInsufficientFunds,
		"Insufficient funds in bank account",
		http.StatusUnprocessableEntity,
	)
	e.Details = map[string]string{
		"required":  required,
		"available": available,
	}
	return e
}
