package payroll

import (
	"time"

	payrollerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payroll struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_period,unique"`

	Month int `gorm:"not null;index:idx_payroll_period,unique"`
	Year  int `gorm:"not null;index:idx_payroll_period,unique"`

	// Earnings
	BasicSalary     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalAllowances decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Overtime        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Bonuses         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherEarnings   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalEarnings   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	// Deductions
	EmployeeEPF     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LoanRepayment   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Advances        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	// Employer contributions (not deducted from pay)
	EmployerEPF        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ETF                decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalContributions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	NetSalary decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	PaymentStatus     string     `gorm:"type:varchar(20);not null;default:'Pending';index"`
	BankTransactionID *uuid.UUID `gorm:"type:uuid"`
	PaidAt            *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	LoanDeductions []PayrollLoanDeduction `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
}

// PayrollLoanDeduction records which loan installment a payroll cycle
// consumed, so payments can be traced and reversed.
type PayrollLoanDeduction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayrollID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoanID        uuid.UUID       `gorm:"type:uuid;not null"`
	InstallmentID uuid.UUID       `gorm:"type:uuid;not null"`
	Number        int             `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt     time.Time
}

// MarkPaid transitions Pending to Paid, referencing the bank transaction
// that funded it. Paid and Cancelled are terminal for this transition.
func (p *Payroll) MarkPaid(bankTransactionID uuid.UUID, paidAt time.Time) error {
	if p.PaymentStatus != StatusPending {
		return payrollerrors.ErrPayrollNotPending
	}
	p.PaymentStatus = StatusPaid
	p.BankTransactionID = &bankTransactionID
	p.PaidAt = &paidAt
	return nil
}

// CancelPayment transitions Paid to Cancelled, the rollback of a
// completed payment.
func (p *Payroll) CancelPayment() error {
	if p.PaymentStatus != StatusPaid {
		return payrollerrors.ErrPayrollNotPaid
	}
	p.PaymentStatus = StatusCancelled
	p.BankTransactionID = nil
	p.PaidAt = nil
	return nil
}

// Cancel voids an unpaid payroll record.
func (p *Payroll) Cancel() error {
	if p.PaymentStatus != StatusPending {
		return payrollerrors.ErrPayrollNotPending
	}
	p.PaymentStatus = StatusCancelled
	return nil
}
