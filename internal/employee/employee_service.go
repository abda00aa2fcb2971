package employee

import (
	"context"
	"errors"
	"strings"

	employeeerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/employee/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested",
		zap.String("employee_number", req.EmployeeNumber),
		zap.String("full_name", req.FullName),
	)

	basicSalary, err := decimal.NewFromString(req.BasicSalary)
	if err != nil || basicSalary.LessThan(decimal.Zero) {
		return EmployeeResponse{}, employeeerrors.ErrMissingBasicSalary
	}

	e := &Employee{
		ID:                uuid.New(),
		EmployeeNumber:    req.EmployeeNumber,
		FullName:          req.FullName,
		NIC:               req.NIC,
		Position:          req.Position,
		Phone:             req.Phone,
		BasicSalary:       basicSalary,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		IsActive:          true,
	}

	for _, ar := range req.Allowances {
		amount, err := decimal.NewFromString(ar.Amount)
		if err != nil || amount.LessThan(decimal.Zero) {
			return EmployeeResponse{}, apperror.InvalidField("allowance amount")
		}
		e.Allowances = append(e.Allowances, Allowance{
			ID:         uuid.New(),
			EmployeeID: e.ID,
			Name:       ar.Name,
			Amount:     amount,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, e)
	})
	if err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create employee success", zap.String("employee_id", e.ID.String()))
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	basicSalary, err := decimal.NewFromString(req.BasicSalary)
	if err != nil || basicSalary.LessThan(decimal.Zero) {
		return EmployeeResponse{}, employeeerrors.ErrMissingBasicSalary
	}

	var updated *Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		e, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrEmployeeNotFound
			}
			return err
		}

		e.FullName = req.FullName
		e.NIC = req.NIC
		e.Position = req.Position
		e.Phone = req.Phone
		e.BasicSalary = basicSalary
		e.BankName = req.BankName
		e.BankAccountNumber = req.BankAccountNumber
		if req.IsActive != nil {
			e.IsActive = *req.IsActive
		}

		if req.Allowances != nil {
			if err := tx.Where("employee_id = ?", e.ID).Delete(&Allowance{}).Error; err != nil {
				return err
			}
			e.Allowances = nil
			for _, ar := range req.Allowances {
				amount, err := decimal.NewFromString(ar.Amount)
				if err != nil || amount.LessThan(decimal.Zero) {
					return apperror.InvalidField("allowance amount")
				}
				e.Allowances = append(e.Allowances, Allowance{
					ID:         uuid.New(),
					EmployeeID: e.ID,
					Name:       ar.Name,
					Amount:     amount,
				})
			}
		}

		if err := qtx.Save(ctx, e); err != nil {
			return err
		}

		updated = e
		return nil
	})
	if err != nil {
		s.logger.Error("update employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return employeeerrors.ErrEmployeeNumberTaken
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return employeeerrors.ErrEmployeeNumberTaken
	}

	return err
}
