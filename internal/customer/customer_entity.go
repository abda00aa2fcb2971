package customer

import (
	"time"

	customererrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/customer/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CreditStatusActive    = "Active"
	CreditStatusSuspended = "Suspended"
	CreditStatusClosed    = "Closed"
)

// CreditAccount is the customer's revolving balance against a fixed
// limit. The balance is mutated only through Increase/Decrease; it is
// never assigned directly.
type CreditAccount struct {
	IsEnabled       bool            `gorm:"not null;default:false"`
	CreditLimit     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CurrentBalance  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	AvailableCredit decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status          string          `gorm:"type:varchar(20);not null;default:'Active'"`
	PaymentTermDays int             `gorm:"not null;default:0"`
}

type Customer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(120);not null"`
	ContactName  string    `gorm:"type:varchar(120)"`
	Phone        string    `gorm:"type:varchar(20)"`
	Email        string    `gorm:"type:varchar(120)"`
	Address      string    `gorm:"type:text"`
	VehicleCount int       `gorm:"not null;default:0"`

	CreditAccount CreditAccount `gorm:"embedded;embeddedPrefix:credit_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IncreaseCredit raises the outstanding balance when a credit invoice
// is issued. Non-positive amounts are rejected.
func (c *Customer) IncreaseCredit(amount decimal.Decimal) error {
	if !money.IsPositive(amount) {
		return customererrors.ErrNonPositiveAmount
	}

	c.CreditAccount.CurrentBalance = money.Round2(c.CreditAccount.CurrentBalance.Add(amount))
	c.recomputeAvailableCredit()
	return nil
}

// DecreaseCredit lowers the outstanding balance when a payment is
// recorded. The balance never drops below zero.
func (c *Customer) DecreaseCredit(amount decimal.Decimal) error {
	if !money.IsPositive(amount) {
		return customererrors.ErrNonPositiveAmount
	}
	if amount.GreaterThan(c.CreditAccount.CurrentBalance) {
		return customererrors.ErrDecreaseExceedsBalance.WithDetails(map[string]string{
			"requested": amount.StringFixed(2),
			"balance":   c.CreditAccount.CurrentBalance.StringFixed(2),
		})
	}

	c.CreditAccount.CurrentBalance = money.Round2(c.CreditAccount.CurrentBalance.Sub(amount))
	c.recomputeAvailableCredit()
	return nil
}

// HasSufficientCredit reports whether a new credit sale of the given
// amount fits within the account.
func (c *Customer) HasSufficientCredit(amount decimal.Decimal) bool {
	if !c.CreditAccount.IsEnabled || c.CreditAccount.Status != CreditStatusActive {
		return false
	}
	return c.CreditAccount.AvailableCredit.GreaterThanOrEqual(amount)
}

// recomputeAvailableCredit keeps availableCredit = creditLimit -
// currentBalance, the invariant re-established on every save.
func (c *Customer) recomputeAvailableCredit() {
	c.CreditAccount.AvailableCredit = money.Round2(
		c.CreditAccount.CreditLimit.Sub(c.CreditAccount.CurrentBalance),
	)
}
