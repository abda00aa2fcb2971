package loan

import (
	"context"
	"errors"
	"time"

	loanerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"

	InstallmentStatusPending = "pending"
	InstallmentStatusPaid    = "paid"
)

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	GetAll(ctx context.Context) ([]LoanResponse, error)
	GetByID(ctx context.Context, id string) (LoanResponse, error)
	PreviewSchedule(ctx context.Context, req PreviewScheduleRequest) (ScheduleResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	amortizer Amortizer
	logger    *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, amortizer Amortizer, logger ...*zap.Logger) Service {
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{db: db, repo: repo, amortizer: amortizer, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error) {
	s.logger.Debug("create loan requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("principal", req.Principal),
		zap.Int("duration_months", req.DurationMonths),
	)

	employeeID, principal, startDate, err := validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("create loan validation failed", zap.Error(err))
		return LoanResponse{}, err
	}

	schedule := s.amortizer.ComputeSchedule(principal, req.DurationMonths, startDate)

	l := &Loan{
		ID:                 uuid.New(),
		EmployeeID:         employeeID,
		Principal:          principal,
		AnnualRate:         s.amortizer.annualRate,
		DurationMonths:     req.DurationMonths,
		Interest:           schedule.Interest,
		TotalRepayable:     schedule.TotalRepayable,
		MonthlyInstallment: schedule.MonthlyInstallment,
		RemainingAmount:    schedule.TotalRepayable,
		Status:             StatusActive,
		StartDate:          startDate,
		Purpose:            req.Purpose,
	}

	l.Installments = make([]LoanInstallment, 0, len(schedule.Installments))
	for _, si := range schedule.Installments {
		l.Installments = append(l.Installments, LoanInstallment{
			ID:               uuid.New(),
			LoanID:           l.ID,
			Number:           si.Number,
			DueDate:          si.DueDate,
			Amount:           si.Amount,
			RemainingBalance: si.RemainingBalance,
			Status:           InstallmentStatusPending,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, l)
	})
	if err != nil {
		s.logger.Error("create loan persist failed", zap.Error(err))
		return LoanResponse{}, err
	}

	s.logger.Info("create loan success",
		zap.String("loan_id", l.ID.String()),
		zap.String("employee_id", l.EmployeeID.String()),
		zap.String("total_repayable", l.TotalRepayable.StringFixed(2)),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LoanResponse, error) {
	loans, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(loans), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LoanResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoanResponse{}, loanerrors.ErrLoanNotFound
		}
		return LoanResponse{}, err
	}
	return mapToResponse(*l), nil
}

// PreviewSchedule computes a schedule without persisting anything, for
// the loan-approval screen.
func (s *service) PreviewSchedule(ctx context.Context, req PreviewScheduleRequest) (ScheduleResponse, error) {
	_, principal, startDate, err := validateCreateRequest(CreateLoanRequest{
		EmployeeID:     uuid.Nil.String(),
		Principal:      req.Principal,
		DurationMonths: req.DurationMonths,
		StartDate:      req.StartDate,
	})
	if err != nil {
		return ScheduleResponse{}, err
	}

	schedule := s.amortizer.ComputeSchedule(principal, req.DurationMonths, startDate)
	return mapToScheduleResponse(schedule), nil
}

func validateCreateRequest(req CreateLoanRequest) (uuid.UUID, decimal.Decimal, time.Time, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, decimal.Zero, time.Time{}, apperror.InvalidField("employee_id")
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil || !principal.GreaterThan(decimal.Zero) {
		return uuid.Nil, decimal.Zero, time.Time{}, loanerrors.ErrInvalidPrincipal
	}

	if req.DurationMonths < 1 {
		return uuid.Nil, decimal.Zero, time.Time{}, loanerrors.ErrInvalidDuration
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return uuid.Nil, decimal.Zero, time.Time{}, err
	}

	return employeeID, principal, startDate, nil
}
