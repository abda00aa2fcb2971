package payroll_test

import (
	"testing"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/employee"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll"
	payrollerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newCalculator() payroll.Calculator {
	return payroll.NewCalculator(payroll.NewStatutoryCalculator(testRates()))
}

func activeLoanWithInstallment(amount string) loan.Loan {
	loanID := uuid.New()
	return loan.Loan{
		ID:              loanID,
		Status:          loan.StatusActive,
		RemainingAmount: d(amount),
		Installments: []loan.LoanInstallment{
			{
				ID:     uuid.New(),
				LoanID: loanID,
				Number: 1,
				Amount: d(amount),
				Status: loan.InstallmentStatusPending,
			},
		},
	}
}

func TestCalculator_Calculate(t *testing.T) {
	calc := newCalculator()

	t.Run("salary with statutory deduction and one loan installment", func(t *testing.T) {
		emp := &employee.Employee{BasicSalary: d("50000")}
		loans := []loan.Loan{activeLoanWithInstallment("1230.00")}

		result, err := calc.Calculate(emp, loans, payroll.ExtraEarnings{}, payroll.ExtraDeductions{})
		assert.NoError(t, err)

		assert.True(t, d("50000.00").Equal(result.GrossSalary))
		assert.True(t, d("4000.00").Equal(result.Contributions.EmployeeEPF))
		assert.True(t, d("1230.00").Equal(result.LoanRepayment))
		assert.True(t, d("5230.00").Equal(result.TotalDeductions), "total deductions = %s", result.TotalDeductions)
		assert.True(t, d("44770.00").Equal(result.NetSalary), "net salary = %s", result.NetSalary)
		assert.True(t, d("7500.00").Equal(result.Contributions.TotalEmployer))
		assert.Len(t, result.LoanDeductions, 1)
	})

	t.Run("allowances and extras feed the gross", func(t *testing.T) {
		emp := &employee.Employee{
			BasicSalary: d("40000"),
			Allowances: []employee.Allowance{
				{Name: "Fuel", Amount: d("5000")},
				{Name: "Attendance", Amount: d("2500")},
			},
		}
		extras := payroll.ExtraEarnings{
			Overtime: d("1500"),
			Bonuses:  d("1000"),
		}

		result, err := calc.Calculate(emp, nil, extras, payroll.ExtraDeductions{})
		assert.NoError(t, err)

		assert.True(t, d("50000.00").Equal(result.GrossSalary), "gross = %s", result.GrossSalary)
		assert.True(t, d("4000.00").Equal(result.Contributions.EmployeeEPF))
	})

	t.Run("net salary equals earnings minus deductions", func(t *testing.T) {
		emp := &employee.Employee{
			BasicSalary: d("63750.40"),
			Allowances:  []employee.Allowance{{Name: "Shift", Amount: d("1249.60")}},
		}
		extras := payroll.ExtraEarnings{Overtime: d("312.55")}
		deductions := payroll.ExtraDeductions{Advances: d("5000"), OtherDeductions: d("120.45")}
		loans := []loan.Loan{activeLoanWithInstallment("2150.75")}

		result, err := calc.Calculate(emp, loans, extras, deductions)
		assert.NoError(t, err)
		assert.True(t, result.NetSalary.Equal(result.GrossSalary.Sub(result.TotalDeductions)))
	})

	t.Run("at most one installment per loan is consumed", func(t *testing.T) {
		loanID := uuid.New()
		l := loan.Loan{
			ID:     loanID,
			Status: loan.StatusActive,
			Installments: []loan.LoanInstallment{
				{ID: uuid.New(), LoanID: loanID, Number: 1, Amount: d("1000"), Status: loan.InstallmentStatusPaid},
				{ID: uuid.New(), LoanID: loanID, Number: 2, Amount: d("1000"), Status: loan.InstallmentStatusPending},
				{ID: uuid.New(), LoanID: loanID, Number: 3, Amount: d("1000"), Status: loan.InstallmentStatusPending},
			},
		}
		emp := &employee.Employee{BasicSalary: d("30000")}

		result, err := calc.Calculate(emp, []loan.Loan{l}, payroll.ExtraEarnings{}, payroll.ExtraDeductions{})
		assert.NoError(t, err)

		assert.True(t, d("1000").Equal(result.LoanRepayment))
		assert.Len(t, result.LoanDeductions, 1)
		assert.Equal(t, 2, result.LoanDeductions[0].Number)
	})

	t.Run("completed loans are skipped", func(t *testing.T) {
		l := activeLoanWithInstallment("500")
		l.Status = loan.StatusCompleted
		emp := &employee.Employee{BasicSalary: d("30000")}

		result, err := calc.Calculate(emp, []loan.Loan{l}, payroll.ExtraEarnings{}, payroll.ExtraDeductions{})
		assert.NoError(t, err)
		assert.True(t, result.LoanRepayment.IsZero())
		assert.Empty(t, result.LoanDeductions)
	})

	t.Run("missing basic salary is rejected", func(t *testing.T) {
		emp := &employee.Employee{BasicSalary: decimal.Zero}

		_, err := calc.Calculate(emp, nil, payroll.ExtraEarnings{}, payroll.ExtraDeductions{})
		assert.ErrorIs(t, err, payrollerrors.ErrMissingBasicSalary)
	})
}

func TestPayroll_StatusTransitions(t *testing.T) {
	now := time.Now()
	txID := uuid.New()

	t.Run("pending can be paid", func(t *testing.T) {
		p := &payroll.Payroll{PaymentStatus: payroll.StatusPending}
		assert.NoError(t, p.MarkPaid(txID, now))
		assert.Equal(t, payroll.StatusPaid, p.PaymentStatus)
		assert.Equal(t, txID, *p.BankTransactionID)
	})

	t.Run("paid cannot be paid again", func(t *testing.T) {
		p := &payroll.Payroll{PaymentStatus: payroll.StatusPaid}
		assert.ErrorIs(t, p.MarkPaid(txID, now), payrollerrors.ErrPayrollNotPending)
	})

	t.Run("only paid payrolls can have their payment cancelled", func(t *testing.T) {
		p := &payroll.Payroll{PaymentStatus: payroll.StatusPaid, BankTransactionID: &txID}
		assert.NoError(t, p.CancelPayment())
		assert.Equal(t, payroll.StatusCancelled, p.PaymentStatus)
		assert.Nil(t, p.BankTransactionID)

		pending := &payroll.Payroll{PaymentStatus: payroll.StatusPending}
		assert.ErrorIs(t, pending.CancelPayment(), payrollerrors.ErrPayrollNotPaid)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		p := &payroll.Payroll{PaymentStatus: payroll.StatusCancelled}
		assert.Error(t, p.MarkPaid(txID, now))
		assert.Error(t, p.Cancel())
	})
}
