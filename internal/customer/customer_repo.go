package customer

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=customer_repo.go -destination=mock/customer_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *Customer) error
	FindAll(ctx context.Context) ([]Customer, error)
	FindByID(ctx context.Context, id string) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
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

func (r *repository) Create(ctx context.Context, customer *Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) Save(ctx context.Context, customer *Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}
