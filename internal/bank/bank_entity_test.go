package bank

import (
	"errors"
	"testing"
	"time"

	bankerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newAccount(balance string) *BankAccount {
	return &BankAccount{
		ID:             uuid.New(),
		AccountName:    "Main Operating",
		AccountNumber:  "100200300",
		CurrentBalance: decimal.RequireFromString(balance),
	}
}

func TestApplyDeposit(t *testing.T) {
	now := time.Now()

	t.Run("increases balance and records balance after", func(t *testing.T) {
		a := newAccount("1000.00")

		txn, err := a.ApplyDeposit(decimal.RequireFromString("250.50"), "INV-000001", "invoice payment", now)

		assert.NoError(t, err)
		assert.Equal(t, "1250.50", a.CurrentBalance.StringFixed(2))
		assert.Equal(t, TransactionTypeDeposit, txn.Type)
		assert.Equal(t, "1250.50", txn.BalanceAfter.StringFixed(2))
		assert.Equal(t, a.ID, txn.AccountID)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		a := newAccount("1000.00")

		_, err := a.ApplyDeposit(decimal.Zero, "", "", now)

		assert.ErrorIs(t, err, bankerrors.ErrNonPositiveAmount)
		assert.Equal(t, "1000.00", a.CurrentBalance.StringFixed(2))
	})
}

func TestApplyWithdrawal(t *testing.T) {
	now := time.Now()

	t.Run("decreases balance", func(t *testing.T) {
		a := newAccount("1000.00")

		txn, err := a.ApplyWithdrawal(decimal.RequireFromString("400.00"), "PAY-1", "salary payment", now)

		assert.NoError(t, err)
		assert.Equal(t, "600.00", a.CurrentBalance.StringFixed(2))
		assert.Equal(t, TransactionTypeWithdrawal, txn.Type)
		assert.Equal(t, "600.00", txn.BalanceAfter.StringFixed(2))
	})

	t.Run("rejects amount above balance with required and available", func(t *testing.T) {
		a := newAccount("300.00")

		_, err := a.ApplyWithdrawal(decimal.RequireFromString("500.00"), "", "", now)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInsufficientFunds, appErr.Code)
		details, ok := appErr.Details.(map[string]string)
		assert.True(t, ok)
		assert.Equal(t, "500.00", details["required"])
		assert.Equal(t, "300.00", details["available"])
		assert.Equal(t, "300.00", a.CurrentBalance.StringFixed(2))
	})

	t.Run("allows withdrawal down to exactly zero", func(t *testing.T) {
		a := newAccount("500.00")

		_, err := a.ApplyWithdrawal(decimal.RequireFromString("500.00"), "", "", now)

		assert.NoError(t, err)
		assert.True(t, a.CurrentBalance.IsZero())
	})
}
