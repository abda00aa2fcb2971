package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank"
	bankerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/messaging/kafka"
	paymenterrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payment/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll"
	payrollerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payment_service.go -destination=mock/payment_service_mock.go -package=mock
type Service interface {
	PaySingle(ctx context.Context, req PaySingleRequest) (SinglePaymentResponse, error)
	PayBatch(ctx context.Context, req PayBatchRequest) (BatchPaymentResponse, error)
	CancelPayment(ctx context.Context, payrollID string) (CancelPaymentResponse, error)
}

type service struct {
	db          *gorm.DB
	payrollRepo payroll.Repository
	loanRepo    loan.Repository
	bankRepo    bank.Repository
	ledger      *bank.Ledger
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

type ServiceDeps struct {
	DB          *gorm.DB
	PayrollRepo payroll.Repository
	LoanRepo    loan.Repository
	BankRepo    bank.Repository
	Ledger      *bank.Ledger
	Outbox      kafka.OutboxRepository
	Logger      *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	l := deps.Logger
	if l == nil {
		l = zap.L()
	}
	return &service{
		db:          deps.DB,
		payrollRepo: deps.PayrollRepo,
		loanRepo:    deps.LoanRepo,
		bankRepo:    deps.BankRepo,
		ledger:      deps.Ledger,
		outbox:      deps.Outbox,
		logger:      l.Named("payment.service"),
	}
}

// PaySingle settles one pending payroll record from the given account.
// The withdrawal, the status flip, and the outbox event commit
// together.
func (s *service) PaySingle(ctx context.Context, req PaySingleRequest) (SinglePaymentResponse, error) {
	var resp SinglePaymentResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.payrollRepo.WithTx(tx)

		p, err := qtx.FindByID(ctx, req.PayrollID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payrollerrors.ErrPayrollNotFound
			}
			return err
		}

		now := time.Now()
		txn, err := s.ledger.Withdraw(ctx, tx, req.BankAccountID, p.NetSalary,
			salaryReference(p), salaryDescription(p), now)
		if err != nil {
			return err
		}

		if err := p.MarkPaid(txn.ID, now); err != nil {
			return err
		}
		if err := qtx.Save(ctx, p); err != nil {
			return err
		}
		if err := s.writeOutboxEvent(ctx, tx, kafka.EventPayrollPaid, p); err != nil {
			return err
		}

		resp = SinglePaymentResponse{
			PayrollID:         p.ID.String(),
			EmployeeID:        p.EmployeeID.String(),
			NetSalary:         p.NetSalary.StringFixed(2),
			BankTransactionID: txn.ID.String(),
			RemainingBalance:  txn.BalanceAfter.StringFixed(2),
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("pay single failed",
			zap.String("payroll_id", req.PayrollID),
			zap.String("bank_account_id", req.BankAccountID),
			zap.Error(err),
		)
		return SinglePaymentResponse{}, err
	}

	s.logger.Info("pay single success",
		zap.String("payroll_id", resp.PayrollID),
		zap.String("net_salary", resp.NetSalary),
	)
	return resp, nil
}

// PayBatch settles a set of pending payroll records. The total required
// is validated against the account balance before any record is
// touched; after that, individual failures land in the failed list
// without aborting the rest, and the account is debited only by the
// amounts actually paid out.
func (s *service) PayBatch(ctx context.Context, req PayBatchRequest) (BatchPaymentResponse, error) {
	if len(req.PayrollIDs) == 0 {
		return BatchPaymentResponse{}, paymenterrors.ErrNoPayrollIDs
	}

	var resp BatchPaymentResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.payrollRepo.WithTx(tx)
		bankQtx := s.bankRepo.WithTx(tx)

		pending, err := qtx.FindPendingByIDs(ctx, req.PayrollIDs)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return paymenterrors.ErrNoPendingPayrolls
		}

		pendingByID := make(map[string]*payroll.Payroll, len(pending))
		totalRequired := decimal.Zero
		for i := range pending {
			pendingByID[pending[i].ID.String()] = &pending[i]
			totalRequired = totalRequired.Add(pending[i].NetSalary)
		}

		// Funds check before any mutation. Locking the account here
		// also serializes concurrent batches against it.
		account, err := bankQtx.FindByIDForUpdate(ctx, req.BankAccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bankerrors.ErrAccountNotFound
			}
			return err
		}
		if account.CurrentBalance.LessThan(totalRequired) {
			return apperror.InsufficientFunds(
				totalRequired.StringFixed(2),
				account.CurrentBalance.StringFixed(2),
			)
		}

		now := time.Now()
		totalPaid := decimal.Zero
		lastBalance := account.CurrentBalance

		for _, id := range req.PayrollIDs {
			p, ok := pendingByID[id]
			if !ok {
				resp.Failed = append(resp.Failed, PaymentResultItem{
					PayrollID: id,
					Reason:    "payroll record is not pending payment",
				})
				continue
			}

			txn, err := s.ledger.Withdraw(ctx, tx, req.BankAccountID, p.NetSalary,
				salaryReference(p), salaryDescription(p), now)
			if err != nil {
				var appErr *apperror.AppError
				if !errors.As(err, &appErr) {
					return err
				}
				resp.Failed = append(resp.Failed, PaymentResultItem{
					PayrollID:  id,
					EmployeeID: p.EmployeeID.String(),
					NetSalary:  p.NetSalary.StringFixed(2),
					Reason:     appErr.Message,
				})
				continue
			}

			if err := p.MarkPaid(txn.ID, now); err != nil {
				return err
			}
			if err := qtx.Save(ctx, p); err != nil {
				return err
			}
			if err := s.writeOutboxEvent(ctx, tx, kafka.EventPayrollPaid, p); err != nil {
				return err
			}

			totalPaid = totalPaid.Add(p.NetSalary)
			lastBalance = txn.BalanceAfter
			resp.Success = append(resp.Success, PaymentResultItem{
				PayrollID:         id,
				EmployeeID:        p.EmployeeID.String(),
				NetSalary:         p.NetSalary.StringFixed(2),
				BankTransactionID: txn.ID.String(),
			})
		}

		resp.TotalPaid = totalPaid.StringFixed(2)
		resp.BalanceRem = lastBalance.StringFixed(2)
		return nil
	})
	if err != nil {
		s.logger.Warn("pay batch failed",
			zap.String("bank_account_id", req.BankAccountID),
			zap.Int("payroll_count", len(req.PayrollIDs)),
			zap.Error(err),
		)
		return BatchPaymentResponse{}, err
	}

	s.logger.Info("pay batch success",
		zap.Int("paid", len(resp.Success)),
		zap.Int("failed", len(resp.Failed)),
		zap.String("total_paid", resp.TotalPaid),
	)
	return resp, nil
}

// CancelPayment reverses a completed salary payment: the account is
// refunded, the payroll record moves to Cancelled, and every loan
// installment the payroll consumed goes back to pending.
func (s *service) CancelPayment(ctx context.Context, payrollID string) (CancelPaymentResponse, error) {
	var resp CancelPaymentResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.payrollRepo.WithTx(tx)
		bankQtx := s.bankRepo.WithTx(tx)
		loanQtx := s.loanRepo.WithTx(tx)

		p, err := qtx.FindByID(ctx, payrollID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payrollerrors.ErrPayrollNotFound
			}
			return err
		}

		if p.BankTransactionID == nil {
			return paymenterrors.ErrMissingBankTransaction
		}
		original, err := bankQtx.FindTransactionByID(ctx, p.BankTransactionID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return paymenterrors.ErrMissingBankTransaction
			}
			return err
		}

		if err := p.CancelPayment(); err != nil {
			return err
		}

		now := time.Now()
		refund, err := s.ledger.Deposit(ctx, tx, original.AccountID.String(), original.Amount,
			fmt.Sprintf("REV-%s", original.Reference),
			fmt.Sprintf("reversal of salary payment %s", original.Reference), now)
		if err != nil {
			return err
		}

		if err := qtx.Save(ctx, p); err != nil {
			return err
		}

		if err := payroll.ReopenConsumedInstallments(ctx, loanQtx, p.ID.String()); err != nil {
			return err
		}

		if err := s.writeOutboxEvent(ctx, tx, kafka.EventPayrollPaymentCancelled, p); err != nil {
			return err
		}

		resp = CancelPaymentResponse{
			PayrollID:        p.ID.String(),
			RefundedAmount:   original.Amount.StringFixed(2),
			RemainingBalance: refund.BalanceAfter.StringFixed(2),
			Status:           p.PaymentStatus,
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("cancel payment failed", zap.String("payroll_id", payrollID), zap.Error(err))
		return CancelPaymentResponse{}, err
	}

	s.logger.Info("cancel payment success",
		zap.String("payroll_id", resp.PayrollID),
		zap.String("refunded", resp.RefundedAmount),
	)
	return resp, nil
}

func (s *service) writeOutboxEvent(ctx context.Context, tx *gorm.DB, eventType string, p *payroll.Payroll) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"payroll_id":  p.ID.String(),
		"employee_id": p.EmployeeID.String(),
		"net_salary":  p.NetSalary.StringFixed(2),
		"status":      p.PaymentStatus,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll",
		AggregateID:   p.ID.String(),
		EventType:     eventType,
		Topic:         kafka.TopicPayroll,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func salaryReference(p *payroll.Payroll) string {
	return fmt.Sprintf("SAL-%d%02d-%s", p.Year, p.Month, shortID(p.ID))
}

func salaryDescription(p *payroll.Payroll) string {
	return fmt.Sprintf("salary payment %d/%d employee %s", p.Month, p.Year, p.EmployeeID)
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
