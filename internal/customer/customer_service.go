package customer

import (
	"context"
	"errors"

	customererrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/customer/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=customer_service.go -destination=mock/customer_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error)
	GetAll(ctx context.Context) ([]CustomerResponse, error)
	GetByID(ctx context.Context, id string) (CustomerResponse, error)
	Update(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error)
	IncreaseCredit(ctx context.Context, id string, req AdjustCreditRequest) (CustomerResponse, error)
	DecreaseCredit(ctx context.Context, id string, req AdjustCreditRequest) (CustomerResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("customer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("customer.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error) {
	c := &Customer{
		ID:           uuid.New(),
		Name:         req.Name,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		VehicleCount: req.VehicleCount,
		CreditAccount: CreditAccount{
			Status: CreditStatusActive,
		},
	}

	if req.CreditAccount != nil {
		if err := applyCreditAccountRequest(c, req.CreditAccount); err != nil {
			return CustomerResponse{}, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, c)
	})
	if err != nil {
		s.logger.Error("create customer persist failed", zap.Error(err))
		return CustomerResponse{}, err
	}

	s.logger.Info("create customer success", zap.String("customer_id", c.ID.String()))
	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context) ([]CustomerResponse, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(customers), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, customererrors.ErrCustomerNotFound
		}
		return CustomerResponse{}, err
	}
	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error) {
	var updated *Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		c, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customererrors.ErrCustomerNotFound
			}
			return err
		}

		c.Name = req.Name
		c.ContactName = req.ContactName
		c.Phone = req.Phone
		c.Email = req.Email
		c.Address = req.Address
		c.VehicleCount = req.VehicleCount

		if req.CreditAccount != nil {
			if err := applyCreditAccountRequest(c, req.CreditAccount); err != nil {
				return err
			}
		}

		if err := qtx.Save(ctx, c); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return CustomerResponse{}, err
	}

	return mapToResponse(*updated), nil
}

func (s *service) IncreaseCredit(ctx context.Context, id string, req AdjustCreditRequest) (CustomerResponse, error) {
	return s.adjustCredit(ctx, id, req, func(c *Customer, amount decimal.Decimal) error {
		return c.IncreaseCredit(amount)
	})
}

func (s *service) DecreaseCredit(ctx context.Context, id string, req AdjustCreditRequest) (CustomerResponse, error) {
	return s.adjustCredit(ctx, id, req, func(c *Customer, amount decimal.Decimal) error {
		return c.DecreaseCredit(amount)
	})
}

func (s *service) adjustCredit(
	ctx context.Context,
	id string,
	req AdjustCreditRequest,
	apply func(*Customer, decimal.Decimal) error,
) (CustomerResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return CustomerResponse{}, apperror.InvalidField("amount")
	}

	var updated *Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		c, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customererrors.ErrCustomerNotFound
			}
			return err
		}

		if err := apply(c, amount); err != nil {
			return err
		}

		if err := qtx.Save(ctx, c); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		s.logger.Warn("adjust credit failed",
			zap.String("customer_id", id),
			zap.String("amount", req.Amount),
			zap.Error(err),
		)
		return CustomerResponse{}, err
	}

	s.logger.Info("adjust credit success",
		zap.String("customer_id", id),
		zap.String("balance", updated.CreditAccount.CurrentBalance.StringFixed(2)),
	)
	return mapToResponse(*updated), nil
}

func applyCreditAccountRequest(c *Customer, req *CreditAccountRequest) error {
	c.CreditAccount.IsEnabled = req.IsEnabled
	c.CreditAccount.PaymentTermDays = req.PaymentTermDays

	if req.Status != "" {
		c.CreditAccount.Status = req.Status
	}

	if req.CreditLimit != "" {
		limit, err := decimal.NewFromString(req.CreditLimit)
		if err != nil || limit.IsNegative() {
			return apperror.InvalidField("credit_limit")
		}
		c.CreditAccount.CreditLimit = limit
	}

	// Keep the invariant after a limit change.
	c.CreditAccount.AvailableCredit = c.CreditAccount.CreditLimit.Sub(c.CreditAccount.CurrentBalance)
	return nil
}
