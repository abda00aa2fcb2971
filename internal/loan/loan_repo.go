package loan

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, loan *Loan) error
	FindAll(ctx context.Context) ([]Loan, error)
	FindByID(ctx context.Context, id string) (*Loan, error)
	FindActiveByEmployee(ctx context.Context, employeeID string) ([]Loan, error)
	FindByPaidPayroll(ctx context.Context, payrollID string) ([]Loan, error)
	Save(ctx context.Context, loan *Loan) error
	SaveInstallment(ctx context.Context, inst *LoanInstallment) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, loan *Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("loan_installments.number ASC")
		}).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Loan, error) {
	var loan Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("loan_installments.number ASC")
		}).
		First(&loan, "id = ?", id).Error
	return &loan, err
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID string) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("loan_installments.number ASC")
		}).
		Where("employee_id = ? AND status = ?", employeeID, StatusActive).
		Order("start_date ASC").
		Find(&loans).Error
	return loans, err
}

// FindByPaidPayroll loads the loans whose installments were consumed by
// the given payroll record, used by the payment-cancellation rollback.
func (r *repository) FindByPaidPayroll(ctx context.Context, payrollID string) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("loan_installments.number ASC")
		}).
		Where("id IN (?)", r.db.
			Table("loan_installments").
			Select("loan_id").
			Where("paid_by_payroll_id = ?", payrollID)).
		Find(&loans).Error
	return loans, err
}

func (r *repository) Save(ctx context.Context, loan *Loan) error {
	return r.db.WithContext(ctx).
		Omit("Installments").
		Save(loan).Error
}

func (r *repository) SaveInstallment(ctx context.Context, inst *LoanInstallment) error {
	return r.db.WithContext(ctx).Save(inst).Error
}
