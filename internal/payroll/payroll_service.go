package payroll

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/employee"
	employeeerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/employee/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/messaging/kafka"
	payrollerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "Pending"
	StatusPaid      = "Paid"
	StatusCancelled = "Cancelled"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context) ([]PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	Cancel(ctx context.Context, id string) (PayrollResponse, error)
}

type service struct {
	db           *gorm.DB
	repo         Repository
	employeeRepo employee.Repository
	loanRepo     loan.Repository
	calculator   Calculator
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employeeRepo employee.Repository,
	loanRepo loan.Repository,
	calculator Calculator,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employeeRepo, loanRepo, calculator, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	employeeRepo employee.Repository,
	loanRepo loan.Repository,
	calculator Calculator,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		loanRepo:     loanRepo,
		calculator:   calculator,
		outbox:       outboxRepo,
		logger:       l,
	}
}

// Generate runs the payroll calculation for one employee and period and
// persists the result. The payroll record, the consumed loan
// installments, and the outbox event commit as one transaction.
func (s *service) Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error) {
	s.logger.Debug("generate payroll requested",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	if req.Month < 1 || req.Month > 12 || req.Year < 2000 {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	extraEarnings, extraDeductions, err := parseExtras(req)
	if err != nil {
		s.logger.Warn("generate payroll validation failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	var p *Payroll
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		employeeQtx := s.employeeRepo.WithTx(tx)
		loanQtx := s.loanRepo.WithTx(tx)

		exists, err := qtx.ExistsForPeriod(ctx, req.EmployeeID, req.Month, req.Year)
		if err != nil {
			return err
		}
		if exists {
			return payrollerrors.ErrPayrollPeriodExists
		}

		emp, err := employeeQtx.FindByID(ctx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrEmployeeNotFound
			}
			return err
		}
		if !emp.IsActive {
			return employeeerrors.ErrEmployeeInactive
		}

		activeLoans, err := loanQtx.FindActiveByEmployee(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		calc, err := s.calculator.Calculate(emp, activeLoans, extraEarnings, extraDeductions)
		if err != nil {
			return err
		}

		p = buildPayroll(emp.ID, req.Month, req.Year, calc)

		if err := qtx.Create(ctx, p); err != nil {
			return err
		}

		// Mark each consumed installment paid with a back-reference to
		// this payroll record.
		for _, ld := range calc.LoanDeductions {
			for i := range activeLoans {
				l := &activeLoans[i]
				if l.ID != ld.LoanID {
					continue
				}
				for j := range l.Installments {
					inst := &l.Installments[j]
					if inst.ID != ld.InstallmentID {
						continue
					}
					l.ApplyInstallmentPayment(inst, p.ID)
					if err := loanQtx.SaveInstallment(ctx, inst); err != nil {
						return err
					}
					if err := loanQtx.Save(ctx, l); err != nil {
						return err
					}
				}
			}
		}

		return s.writeOutboxEvent(ctx, tx, kafka.EventPayrollGenerated, p)
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			s.logger.Warn("generate payroll rejected", zap.Error(err))
		} else {
			s.logger.Error("generate payroll failed", zap.Error(err))
		}
		return PayrollResponse{}, err
	}

	s.logger.Info("generate payroll success",
		zap.String("payroll_id", p.ID.String()),
		zap.String("employee_id", p.EmployeeID.String()),
		zap.String("net_salary", p.NetSalary.StringFixed(2)),
	)

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context) ([]PayrollResponse, error) {
	payrolls, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

// Cancel voids a pending payroll record and reopens the loan
// installments it consumed, all in one transaction.
func (s *service) Cancel(ctx context.Context, id string) (PayrollResponse, error) {
	var p *Payroll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		loanQtx := s.loanRepo.WithTx(tx)

		var err error
		p, err = qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payrollerrors.ErrPayrollNotFound
			}
			return err
		}

		if err := p.Cancel(); err != nil {
			return err
		}

		if err := ReopenConsumedInstallments(ctx, loanQtx, p.ID.String()); err != nil {
			return err
		}

		return qtx.Save(ctx, p)
	})
	if err != nil {
		s.logger.Warn("cancel payroll failed", zap.String("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, err
	}

	s.logger.Info("cancel payroll success", zap.String("payroll_id", id))
	return mapToResponse(*p), nil
}

// ReopenConsumedInstallments restores to pending every loan installment
// the payroll record consumed. Shared with the payment-cancellation
// path.
func ReopenConsumedInstallments(ctx context.Context, loanQtx loan.Repository, payrollID string) error {
	loans, err := loanQtx.FindByPaidPayroll(ctx, payrollID)
	if err != nil {
		return err
	}

	for i := range loans {
		l := &loans[i]
		for j := range l.Installments {
			inst := &l.Installments[j]
			if inst.PaidByPayrollID == nil || inst.PaidByPayrollID.String() != payrollID {
				continue
			}
			l.RevertInstallmentPayment(inst)
			if err := loanQtx.SaveInstallment(ctx, inst); err != nil {
				return err
			}
		}
		if err := loanQtx.Save(ctx, l); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) writeOutboxEvent(ctx context.Context, tx *gorm.DB, eventType string, p *Payroll) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"payroll_id":  p.ID.String(),
		"employee_id": p.EmployeeID.String(),
		"month":       p.Month,
		"year":        p.Year,
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

func buildPayroll(employeeID uuid.UUID, month, year int, calc Calculation) *Payroll {
	p := &Payroll{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,

		BasicSalary:     calc.BasicSalary,
		TotalAllowances: calc.TotalAllowances,
		Overtime:        calc.Overtime,
		Bonuses:         calc.Bonuses,
		OtherEarnings:   calc.OtherEarnings,
		TotalEarnings:   calc.GrossSalary,

		EmployeeEPF:     calc.Contributions.EmployeeEPF,
		LoanRepayment:   calc.LoanRepayment,
		Advances:        calc.Advances,
		OtherDeductions: calc.OtherDeductions,
		TotalDeductions: calc.TotalDeductions,

		EmployerEPF:        calc.Contributions.EmployerEPF,
		ETF:                calc.Contributions.ETF,
		TotalContributions: calc.Contributions.TotalEmployer,

		NetSalary:     calc.NetSalary,
		PaymentStatus: StatusPending,
	}

	for _, ld := range calc.LoanDeductions {
		p.LoanDeductions = append(p.LoanDeductions, PayrollLoanDeduction{
			ID:            uuid.New(),
			PayrollID:     p.ID,
			LoanID:        ld.LoanID,
			InstallmentID: ld.InstallmentID,
			Number:        ld.Number,
			Amount:        ld.Amount,
		})
	}

	return p
}

func parseExtras(req GeneratePayrollRequest) (ExtraEarnings, ExtraDeductions, error) {
	var earnings ExtraEarnings
	var deductions ExtraDeductions

	fields := []struct {
		raw    string
		name   string
		target *decimal.Decimal
	}{
		{req.Overtime, "overtime", &earnings.Overtime},
		{req.Bonuses, "bonuses", &earnings.Bonuses},
		{req.OtherEarnings, "other_earnings", &earnings.OtherEarnings},
		{req.Advances, "advances", &deductions.Advances},
		{req.OtherDeductions, "other_deductions", &deductions.OtherDeductions},
	}

	for _, f := range fields {
		if f.raw == "" {
			*f.target = decimal.Zero
			continue
		}
		v, err := decimal.NewFromString(f.raw)
		if err != nil || v.IsNegative() {
			return ExtraEarnings{}, ExtraDeductions{}, apperror.InvalidField(f.name)
		}
		*f.target = v
	}

	return earnings, deductions, nil
}
