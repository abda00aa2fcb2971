package invoice

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=invoice_repo.go -destination=mock/invoice_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *Invoice) error
	FindAll(ctx context.Context, customerID string, status string) ([]Invoice, error)
	FindByID(ctx context.Context, id string) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	AppendPayment(ctx context.Context, payment *InvoicePayment) error
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

func (r *repository) Create(ctx context.Context, invoice *Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) FindAll(ctx context.Context, customerID string, status string) ([]Invoice, error) {
	var invoices []Invoice
	q := r.db.WithContext(ctx).Preload("Items").Preload("Payments")
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if status != "" {
		q = q.Where("payment_status = ?", status)
	}
	err := q.Order("issue_date DESC").Find(&invoices).Error
	return invoices, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&inv, "id = ?", id).Error
	return &inv, err
}

// FindByIDForUpdate row-locks the invoice so two concurrent payments
// against it serialize instead of both reading the same amount due.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	// Preload does not compose with row locks, load children separately.
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", inv.ID).Order("created_at ASC").Find(&inv.Items).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", inv.ID).Order("created_at ASC").Find(&inv.Payments).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// Save persists the invoice's own columns. Child payments are appended
// explicitly so recomputation never rewrites history rows.
func (r *repository) Save(ctx context.Context, invoice *Invoice) error {
	return r.db.WithContext(ctx).
		Omit("Items", "Payments").
		Save(invoice).Error
}

func (r *repository) AppendPayment(ctx context.Context, payment *InvoicePayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}
