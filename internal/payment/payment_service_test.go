package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payment"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	payroll.Repository
	findByIDFn         func(ctx context.Context, id string) (*payroll.Payroll, error)
	findPendingByIDsFn func(ctx context.Context, ids []string) ([]payroll.Payroll, error)
	saved              []*payroll.Payroll
}

func (f *fakePayrollRepository) WithTx(tx *gorm.DB) payroll.Repository { return f }

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.Payroll, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindPendingByIDs(ctx context.Context, ids []string) ([]payroll.Payroll, error) {
	if f.findPendingByIDsFn != nil {
		return f.findPendingByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Save(ctx context.Context, p *payroll.Payroll) error {
	f.saved = append(f.saved, p)
	return nil
}

type fakeLoanRepository struct {
	loan.Repository
	findByPaidPayrollFn func(ctx context.Context, payrollID string) ([]loan.Loan, error)
	savedLoans          []*loan.Loan
	savedInstallments   []*loan.LoanInstallment
}

func (f *fakeLoanRepository) WithTx(tx *gorm.DB) loan.Repository { return f }

func (f *fakeLoanRepository) FindByPaidPayroll(ctx context.Context, payrollID string) ([]loan.Loan, error) {
	if f.findByPaidPayrollFn != nil {
		return f.findByPaidPayrollFn(ctx, payrollID)
	}
	return nil, nil
}

func (f *fakeLoanRepository) Save(ctx context.Context, l *loan.Loan) error {
	f.savedLoans = append(f.savedLoans, l)
	return nil
}

func (f *fakeLoanRepository) SaveInstallment(ctx context.Context, inst *loan.LoanInstallment) error {
	f.savedInstallments = append(f.savedInstallments, inst)
	return nil
}

type fakeBankRepository struct {
	bank.Repository
	account      *bank.BankAccount
	transactions []*bank.BankTransaction
	savedBalance decimal.Decimal
	saveCount    int
}

func (f *fakeBankRepository) WithTx(tx *gorm.DB) bank.Repository { return f }

func (f *fakeBankRepository) FindByID(ctx context.Context, id string) (*bank.BankAccount, error) {
	if f.account == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.account, nil
}

func (f *fakeBankRepository) FindByIDForUpdate(ctx context.Context, id string) (*bank.BankAccount, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBankRepository) FindTransactionByID(ctx context.Context, id string) (*bank.BankTransaction, error) {
	for _, t := range f.transactions {
		if t.ID.String() == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBankRepository) Save(ctx context.Context, account *bank.BankAccount) error {
	f.savedBalance = account.CurrentBalance
	f.saveCount++
	return nil
}

func (f *fakeBankRepository) AppendTransaction(ctx context.Context, txn *bank.BankTransaction) error {
	f.transactions = append(f.transactions, txn)
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) WithTx(tx *gorm.DB) counter.Repository { return f }

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type paymentServiceDeps struct {
	sqlMock     sqlmock.Sqlmock
	service     payment.Service
	payrollRepo *fakePayrollRepository
	loanRepo    *fakeLoanRepository
	bankRepo    *fakeBankRepository
	close       func()
}

func setupPaymentServiceTest(t *testing.T) *paymentServiceDeps {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	payrollRepo := &fakePayrollRepository{}
	loanRepo := &fakeLoanRepository{}
	bankRepo := &fakeBankRepository{}
	ledger := bank.NewLedger(bankRepo, &fakeCounterRepository{})

	svc := payment.NewService(payment.ServiceDeps{
		DB:          db,
		PayrollRepo: payrollRepo,
		LoanRepo:    loanRepo,
		BankRepo:    bankRepo,
		Ledger:      ledger,
	})

	return &paymentServiceDeps{
		sqlMock:     sqlMock,
		service:     svc,
		payrollRepo: payrollRepo,
		loanRepo:    loanRepo,
		bankRepo:    bankRepo,
		close:       func() { sqlDB.Close() },
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingPayroll(net string) payroll.Payroll {
	return payroll.Payroll{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		Month:         3,
		Year:          2025,
		NetSalary:     decimal.RequireFromString(net),
		PaymentStatus: payroll.StatusPending,
	}
}

func TestPaymentService_PayBatch(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New().String()

	t.Run("insufficient funds for the whole batch fails before any mutation", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		records := []payroll.Payroll{
			pendingPayroll("3000.00"),
			pendingPayroll("4000.00"),
			pendingPayroll("5000.00"),
		}
		ids := []string{records[0].ID.String(), records[1].ID.String(), records[2].ID.String()}
		deps.payrollRepo.findPendingByIDsFn = func(ctx context.Context, got []string) ([]payroll.Payroll, error) {
			return records, nil
		}
		deps.bankRepo.account = &bank.BankAccount{
			ID:             uuid.MustParse(accountID),
			CurrentBalance: decimal.RequireFromString("10000.00"),
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.PayBatch(ctx, payment.PayBatchRequest{
			BankAccountID: accountID,
			PayrollIDs:    ids,
		})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInsufficientFunds, appErr.Code)
		details, ok := appErr.Details.(map[string]string)
		assert.True(t, ok)
		assert.Equal(t, "12000.00", details["required"])
		assert.Equal(t, "10000.00", details["available"])

		assert.Empty(t, deps.payrollRepo.saved)
		assert.Empty(t, deps.bankRepo.transactions)
		assert.Equal(t, 0, deps.bankRepo.saveCount)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("debits only the sum of successful payments", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		paid := pendingPayroll("3000.00")
		alsoPaid := pendingPayroll("4000.00")
		notPending := uuid.New().String()
		deps.payrollRepo.findPendingByIDsFn = func(ctx context.Context, got []string) ([]payroll.Payroll, error) {
			return []payroll.Payroll{paid, alsoPaid}, nil
		}
		deps.bankRepo.account = &bank.BankAccount{
			ID:             uuid.MustParse(accountID),
			CurrentBalance: decimal.RequireFromString("20000.00"),
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.PayBatch(ctx, payment.PayBatchRequest{
			BankAccountID: accountID,
			PayrollIDs:    []string{paid.ID.String(), notPending, alsoPaid.ID.String()},
		})

		assert.NoError(t, err)
		assert.Len(t, resp.Success, 2)
		assert.Len(t, resp.Failed, 1)
		assert.Equal(t, notPending, resp.Failed[0].PayrollID)
		assert.Equal(t, "7000.00", resp.TotalPaid)
		assert.Equal(t, "13000.00", deps.bankRepo.savedBalance.StringFixed(2))
		assert.Len(t, deps.bankRepo.transactions, 2)

		for _, p := range deps.payrollRepo.saved {
			assert.Equal(t, payroll.StatusPaid, p.PaymentStatus)
			assert.NotNil(t, p.BankTransactionID)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects when none of the records are pending", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		deps.payrollRepo.findPendingByIDsFn = func(ctx context.Context, got []string) ([]payroll.Payroll, error) {
			return nil, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.PayBatch(ctx, payment.PayBatchRequest{
			BankAccountID: accountID,
			PayrollIDs:    []string{uuid.New().String()},
		})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeBusinessRuleViolation, appErr.Code)
	})
}

func TestPaymentService_PaySingle(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New().String()

	t.Run("withdraws net salary and marks the record paid", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		p := pendingPayroll("44770.00")
		deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &p, nil
		}
		deps.bankRepo.account = &bank.BankAccount{
			ID:             uuid.MustParse(accountID),
			CurrentBalance: decimal.RequireFromString("100000.00"),
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.PaySingle(ctx, payment.PaySingleRequest{
			BankAccountID: accountID,
			PayrollID:     p.ID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, "44770.00", resp.NetSalary)
		assert.Equal(t, "55230.00", resp.RemainingBalance)
		assert.Equal(t, payroll.StatusPaid, p.PaymentStatus)
		assert.NotEmpty(t, resp.BankTransactionID)
	})

	t.Run("fails on underfunded account without touching the record", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		p := pendingPayroll("44770.00")
		deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &p, nil
		}
		deps.bankRepo.account = &bank.BankAccount{
			ID:             uuid.MustParse(accountID),
			CurrentBalance: decimal.RequireFromString("1000.00"),
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.PaySingle(ctx, payment.PaySingleRequest{
			BankAccountID: accountID,
			PayrollID:     p.ID.String(),
		})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInsufficientFunds, appErr.Code)
		assert.Equal(t, payroll.StatusPending, p.PaymentStatus)
		assert.Empty(t, deps.payrollRepo.saved)
	})

	t.Run("rejects a record that is already paid", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		p := pendingPayroll("5000.00")
		p.PaymentStatus = payroll.StatusPaid
		deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &p, nil
		}
		deps.bankRepo.account = &bank.BankAccount{
			ID:             uuid.MustParse(accountID),
			CurrentBalance: decimal.RequireFromString("100000.00"),
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.PaySingle(ctx, payment.PaySingleRequest{
			BankAccountID: accountID,
			PayrollID:     p.ID.String(),
		})

		assert.Error(t, err)
	})
}

func TestPaymentService_CancelPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("refunds the account and reopens consumed installments", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		accountUUID := uuid.New()
		deps.bankRepo.account = &bank.BankAccount{
			ID:             accountUUID,
			CurrentBalance: decimal.RequireFromString("50000.00"),
		}

		withdrawal := &bank.BankTransaction{
			ID:        uuid.New(),
			AccountID: accountUUID,
			Type:      bank.TransactionTypeWithdrawal,
			Amount:    decimal.RequireFromString("44770.00"),
			Reference: "SAL-202503-abcd1234",
		}
		deps.bankRepo.transactions = append(deps.bankRepo.transactions, withdrawal)

		paidAt := time.Now()
		p := pendingPayroll("44770.00")
		assert.NoError(t, p.MarkPaid(withdrawal.ID, paidAt))
		deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &p, nil
		}

		loanID := uuid.New()
		instID := uuid.New()
		payrollRef := p.ID
		deps.loanRepo.findByPaidPayrollFn = func(ctx context.Context, payrollID string) ([]loan.Loan, error) {
			l := loan.Loan{
				ID:              loanID,
				Status:          loan.StatusCompleted,
				RemainingAmount: decimal.Zero,
				Installments: []loan.LoanInstallment{
					{
						ID:              instID,
						LoanID:          loanID,
						Number:          12,
						Amount:          decimal.RequireFromString("1230.00"),
						Status:          loan.InstallmentStatusPaid,
						PaidByPayrollID: &payrollRef,
					},
				},
			}
			return []loan.Loan{l}, nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.CancelPayment(ctx, p.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "44770.00", resp.RefundedAmount)
		assert.Equal(t, "94770.00", resp.RemainingBalance)
		assert.Equal(t, payroll.StatusCancelled, resp.Status)
		assert.Equal(t, payroll.StatusCancelled, p.PaymentStatus)
		assert.Nil(t, p.BankTransactionID)

		assert.Len(t, deps.loanRepo.savedInstallments, 1)
		reopened := deps.loanRepo.savedInstallments[0]
		assert.Equal(t, loan.InstallmentStatusPending, reopened.Status)
		assert.Nil(t, reopened.PaidByPayrollID)

		assert.Len(t, deps.loanRepo.savedLoans, 1)
		assert.Equal(t, loan.StatusActive, deps.loanRepo.savedLoans[0].Status)
		assert.Equal(t, "1230.00", deps.loanRepo.savedLoans[0].RemainingAmount.StringFixed(2))
	})

	t.Run("rejects a record that was never paid", func(t *testing.T) {
		deps := setupPaymentServiceTest(t)
		defer deps.close()

		p := pendingPayroll("5000.00")
		deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
			return &p, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.CancelPayment(ctx, p.ID.String())

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
	})
}
