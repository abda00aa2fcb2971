package employeeerrors

import (
	"net/http"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)

	ErrMissingBasicSalary = apperror.New(
		apperror.CodeValidationError,
		"Employee basic salary is required",
		http.StatusBadRequest,
	)

	ErrEmployeeInactive = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"Employee is not active",
		http.StatusUnprocessableEntity,
	)

	ErrEmployeeNumberTaken = apperror.New(
		apperror.CodeConflict,
		"Employee number is already in use",
		http.StatusConflict,
	)
)
