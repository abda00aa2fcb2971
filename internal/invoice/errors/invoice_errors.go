package errors

import (
	"net/http"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
)

var (
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"invoice not found",
		http.StatusNotFound,
	)

	ErrNonPositivePayment = apperror.New(
		apperror.CodeValidationError,
		"payment amount must be greater than zero",
		http.StatusBadRequest,
	)

	ErrCancelPaidInvoice = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"a paid invoice cannot be cancelled",
		http.StatusUnprocessableEntity,
	)

	ErrInvoiceCancelled = apperror.New(
		apperror.CodeInvalidState,
		"invoice has been cancelled",
		http.StatusUnprocessableEntity,
	)

	ErrNoItems = apperror.New(
		apperror.CodeValidationError,
		"invoice requires at least one line item",
		http.StatusBadRequest,
	)

	ErrNoQualifyingSales = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"no uninvoiced credit sales in the given period",
		http.StatusUnprocessableEntity,
	)

	ErrCreditAccountDisabled = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"customer has no enabled credit account",
		http.StatusUnprocessableEntity,
	)
)
