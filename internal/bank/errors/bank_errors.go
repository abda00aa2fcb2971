package errors

import (
	"net/http"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
)

var (
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"bank account not found",
		http.StatusNotFound,
	)

	ErrNonPositiveAmount = apperror.New(
		apperror.CodeValidationError,
		"transaction amount must be greater than zero",
		http.StatusBadRequest,
	)

	ErrAccountNumberTaken = apperror.New(
		apperror.CodeConflict,
		"account number already registered",
		http.StatusConflict,
	)
)
