package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=sales_repo.go -destination=mock/sales_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id string) (*Sale, error)
	FindUninvoicedCredit(ctx context.Context, customerID string, from, to time.Time) ([]Sale, error)
	MarkInvoiced(ctx context.Context, saleIDs []uuid.UUID, invoiceID uuid.UUID) error
	ClearInvoice(ctx context.Context, invoiceID uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, sale *Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Sale, error) {
	var s Sale
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindUninvoicedCredit(ctx context.Context, customerID string, from, to time.Time) ([]Sale, error) {
	var sales []Sale
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Where("payment_method = ?", PaymentMethodCredit).
		Where("invoice_id IS NULL").
		Where("sale_date >= ? AND sale_date <= ?", from, to).
		Order("sale_date ASC").
		Find(&sales).Error
	return sales, err
}

func (r *repository) MarkInvoiced(ctx context.Context, saleIDs []uuid.UUID, invoiceID uuid.UUID) error {
	if len(saleIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Sale{}).
		Where("id IN ?", saleIDs).
		Update("invoice_id", invoiceID).Error
}

// ClearInvoice releases sales back to the uninvoiced pool when their
// invoice is cancelled.
func (r *repository) ClearInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Sale{}).
		Where("invoice_id = ?", invoiceID).
		Update("invoice_id", nil).Error
}
