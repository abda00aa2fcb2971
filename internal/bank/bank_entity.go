package bank

import (
	"time"

	bankerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
)

type BankAccount struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountName    string          `gorm:"type:varchar(120);not null"`
	AccountNumber  string          `gorm:"type:varchar(40);uniqueIndex"`
	BankName       string          `gorm:"type:varchar(80)"`
	Branch         string          `gorm:"type:varchar(80)"`
	OpeningBalance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BankTransaction is an immutable append against an account, carrying
// the balance that resulted from it.
type BankTransaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         string          `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reference    string          `gorm:"type:varchar(120)"`
	Description  string          `gorm:"type:text"`
	Date         time.Time       `gorm:"not null;index"`
	CreatedAt    time.Time
}

// ApplyDeposit increases the balance and returns the transaction row to
// append. Non-positive amounts are rejected.
func (a *BankAccount) ApplyDeposit(amount decimal.Decimal, reference, description string, at time.Time) (*BankTransaction, error) {
	if !money.IsPositive(amount) {
		return nil, bankerrors.ErrNonPositiveAmount
	}

	a.CurrentBalance = money.Round2(a.CurrentBalance.Add(amount))

	return &BankTransaction{
		ID:           uuid.New(),
		AccountID:    a.ID,
		Type:         TransactionTypeDeposit,
		Amount:       amount,
		BalanceAfter: a.CurrentBalance,
		Reference:    reference,
		Description:  description,
		Date:         at,
	}, nil
}

// ApplyWithdrawal decreases the balance, failing with an
// insufficient-funds error carrying the required and available amounts.
func (a *BankAccount) ApplyWithdrawal(amount decimal.Decimal, reference, description string, at time.Time) (*BankTransaction, error) {
	if !money.IsPositive(amount) {
		return nil, bankerrors.ErrNonPositiveAmount
	}
	if a.CurrentBalance.LessThan(amount) {
		return nil, apperror.InsufficientFunds(amount.StringFixed(2), a.CurrentBalance.StringFixed(2))
	}

	a.CurrentBalance = money.Round2(a.CurrentBalance.Sub(amount))

	return &BankTransaction{
		ID:           uuid.New(),
		AccountID:    a.ID,
		Type:         TransactionTypeWithdrawal,
		Amount:       amount,
		BalanceAfter: a.CurrentBalance,
		Reference:    reference,
		Description:  description,
		Date:         at,
	}, nil
}
