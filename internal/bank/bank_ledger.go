package bank

import (
	"context"
	"errors"
	"fmt"
	"time"

	bankerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/counter"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger records balance movements against an account inside a caller
// supplied transaction, so deposits and withdrawals commit or roll back
// together with whatever business write triggered them.
type Ledger struct {
	repo    Repository
	counter counter.Repository
}

func NewLedger(repo Repository, counterRepo counter.Repository) *Ledger {
	return &Ledger{repo: repo, counter: counterRepo}
}

// Deposit credits the account and appends the transaction row within tx.
func (l *Ledger) Deposit(ctx context.Context, tx *gorm.DB, accountID string, amount decimal.Decimal, reference, description string, at time.Time) (*BankTransaction, error) {
	return l.apply(ctx, tx, accountID, reference, func(a *BankAccount, ref string) (*BankTransaction, error) {
		return a.ApplyDeposit(amount, ref, description, at)
	})
}

// Withdraw debits the account within tx, failing without any write when
// the balance cannot cover the amount.
func (l *Ledger) Withdraw(ctx context.Context, tx *gorm.DB, accountID string, amount decimal.Decimal, reference, description string, at time.Time) (*BankTransaction, error) {
	return l.apply(ctx, tx, accountID, reference, func(a *BankAccount, ref string) (*BankTransaction, error) {
		return a.ApplyWithdrawal(amount, ref, description, at)
	})
}

// Balance reads the current balance without locking.
func (l *Ledger) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	a, err := l.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, bankerrors.ErrAccountNotFound
		}
		return decimal.Zero, err
	}
	return a.CurrentBalance, nil
}

func (l *Ledger) apply(
	ctx context.Context,
	tx *gorm.DB,
	accountID string,
	reference string,
	mutate func(*BankAccount, string) (*BankTransaction, error),
) (*BankTransaction, error) {
	qtx := l.repo.WithTx(tx)

	account, err := qtx.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bankerrors.ErrAccountNotFound
		}
		return nil, err
	}

	ref := reference
	if ref == "" {
		seq, err := l.counter.WithTx(tx).GetNextValue(ctx, counter.TypeBankTransaction)
		if err != nil {
			return nil, err
		}
		ref = fmt.Sprintf("TXN-%06d", seq)
	}

	txn, err := mutate(account, ref)
	if err != nil {
		return nil, err
	}

	if err := qtx.Save(ctx, account); err != nil {
		return nil, err
	}
	if err := qtx.AppendTransaction(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}
