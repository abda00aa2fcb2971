package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Loan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_loan_employee_status"`

	Principal          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AnnualRate         decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	DurationMonths     int             `gorm:"not null"`
	Interest           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalRepayable     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	MonthlyInstallment decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RemainingAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	Status    string    `gorm:"type:varchar(20);not null;default:'active';index:idx_loan_employee_status"`
	StartDate time.Time `gorm:"type:date;not null"`
	Purpose   string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Installments []LoanInstallment `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`
}

type LoanInstallment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LoanID uuid.UUID `gorm:"type:uuid;not null;index"`

	Number           int             `gorm:"not null"`
	DueDate          time.Time       `gorm:"type:date;not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RemainingBalance decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending'"`

	// Set when the installment is consumed by a payroll cycle so the
	// deduction can be traced and, on payment cancellation, reversed.
	PaidByPayrollID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextPendingInstallment returns the earliest pending installment, at
// most one per payroll cycle.
func (l *Loan) NextPendingInstallment() *LoanInstallment {
	for i := range l.Installments {
		if l.Installments[i].Status == InstallmentStatusPending {
			return &l.Installments[i]
		}
	}
	return nil
}

// ApplyInstallmentPayment marks the installment as consumed by a payroll
// record, decrements the loan's remaining amount, and completes the loan
// once nothing is left to repay.
func (l *Loan) ApplyInstallmentPayment(inst *LoanInstallment, payrollID uuid.UUID) {
	inst.Status = InstallmentStatusPaid
	inst.PaidByPayrollID = &payrollID

	l.RemainingAmount = l.RemainingAmount.Sub(inst.Amount)
	if l.RemainingAmount.LessThanOrEqual(decimal.Zero) {
		l.RemainingAmount = decimal.Zero
		l.Status = StatusCompleted
	}
}

// RevertInstallmentPayment restores a consumed installment to pending,
// the rollback side of a payroll payment cancellation. A completed loan
// becomes active again.
func (l *Loan) RevertInstallmentPayment(inst *LoanInstallment) {
	inst.Status = InstallmentStatusPending
	inst.PaidByPayrollID = nil

	l.RemainingAmount = l.RemainingAmount.Add(inst.Amount)
	if l.Status == StatusCompleted {
		l.Status = StatusActive
	}
}
