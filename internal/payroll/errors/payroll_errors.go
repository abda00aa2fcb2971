package payrollerrors

import (
	"net/http"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll record not found",
		http.StatusNotFound,
	)

	ErrPayrollPeriodExists = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"A payroll record already exists for this employee and period",
		http.StatusUnprocessableEntity,
	)

	ErrNegativeGrossSalary = apperror.New(
		apperror.CodeValidationError,
		"Gross salary cannot be negative",
		http.StatusBadRequest,
	)

	ErrMissingBasicSalary = apperror.New(
		apperror.CodeValidationError,
		"Employee has no basic salary configured",
		http.StatusBadRequest,
	)

	ErrInvalidPeriod = apperror.New(
		apperror.CodeValidationError,
		"Payroll period is invalid",
		http.StatusBadRequest,
	)

	ErrPayrollNotPending = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"Payroll record is not in pending status",
		http.StatusUnprocessableEntity,
	)

	ErrPayrollNotPaid = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"Payroll record has not been paid",
		http.StatusUnprocessableEntity,
	)

	ErrPayrollImmutable = apperror.New(
		apperror.CodeBusinessRuleViolation,
		"A paid payroll record cannot be modified",
		http.StatusUnprocessableEntity,
	)
)
