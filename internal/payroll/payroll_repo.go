package payroll

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindAll(ctx context.Context) ([]Payroll, error)
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindPendingByIDs(ctx context.Context, ids []string) ([]Payroll, error)
	ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error)
	Save(ctx context.Context, payroll *Payroll) error
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

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).Create(payroll).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Preload("LoanDeductions").
		Order("year DESC, month DESC, created_at DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).
		Preload("LoanDeductions").
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

// FindPendingByIDs restricts a payment batch to records that are still
// pending; anything else silently drops out of the batch.
func (r *repository) FindPendingByIDs(ctx context.Context, ids []string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Preload("LoanDeductions").
		Where("id IN ? AND payment_status = ?", ids, StatusPending).
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Save(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).
		Omit("LoanDeductions").
		Save(payroll).Error
}
