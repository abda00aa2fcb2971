package bank

import (
	"context"
	"errors"
	"time"

	bankerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=bank_service.go -destination=mock/bank_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateAccountRequest) (AccountResponse, error)
	GetAll(ctx context.Context) ([]AccountResponse, error)
	GetByID(ctx context.Context, id string) (AccountResponse, error)
	Deposit(ctx context.Context, id string, req TransactionRequest) (TransactionResponse, error)
	Withdraw(ctx context.Context, id string, req TransactionRequest) (TransactionResponse, error)
	GetTransactions(ctx context.Context, id string, limit int) ([]TransactionResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	ledger *Ledger
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, ledger *Ledger, logger ...*zap.Logger) Service {
	l := zap.L().Named("bank.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("bank.service")
	}
	return &service{db: db, repo: repo, ledger: ledger, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateAccountRequest) (AccountResponse, error) {
	opening := decimal.Zero
	if req.OpeningBalance != "" {
		parsed, err := decimal.NewFromString(req.OpeningBalance)
		if err != nil || parsed.IsNegative() {
			return AccountResponse{}, apperror.InvalidField("opening_balance")
		}
		opening = parsed
	}

	account := &BankAccount{
		ID:             uuid.New(),
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		BankName:       req.BankName,
		Branch:         req.Branch,
		OpeningBalance: opening,
		CurrentBalance: opening,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, account)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return AccountResponse{}, bankerrors.ErrAccountNumberTaken
		}
		s.logger.Error("create account persist failed", zap.Error(err))
		return AccountResponse{}, err
	}

	s.logger.Info("create account success", zap.String("account_id", account.ID.String()))
	return mapToResponse(*account), nil
}

func (s *service) GetAll(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(accounts), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AccountResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccountResponse{}, bankerrors.ErrAccountNotFound
		}
		return AccountResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Deposit(ctx context.Context, id string, req TransactionRequest) (TransactionResponse, error) {
	return s.record(ctx, id, req, s.ledger.Deposit)
}

func (s *service) Withdraw(ctx context.Context, id string, req TransactionRequest) (TransactionResponse, error) {
	return s.record(ctx, id, req, s.ledger.Withdraw)
}

func (s *service) record(
	ctx context.Context,
	id string,
	req TransactionRequest,
	move func(context.Context, *gorm.DB, string, decimal.Decimal, string, string, time.Time) (*BankTransaction, error),
) (TransactionResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return TransactionResponse{}, apperror.InvalidField("amount")
	}

	var txn *BankTransaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recorded, err := move(ctx, tx, id, amount, req.Reference, req.Description, time.Now())
		if err != nil {
			return err
		}
		txn = recorded
		return nil
	})
	if err != nil {
		s.logger.Warn("record transaction failed",
			zap.String("account_id", id),
			zap.String("amount", req.Amount),
			zap.Error(err),
		)
		return TransactionResponse{}, err
	}

	s.logger.Info("record transaction success",
		zap.String("account_id", id),
		zap.String("type", txn.Type),
		zap.String("balance_after", txn.BalanceAfter.StringFixed(2)),
	)
	return mapToTransactionResponse(*txn), nil
}

func (s *service) GetTransactions(ctx context.Context, id string, limit int) ([]TransactionResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bankerrors.ErrAccountNotFound
		}
		return nil, err
	}

	txns, err := s.repo.FindTransactions(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	return mapToTransactionListResponse(txns), nil
}
