package bank

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=bank_repo.go -destination=mock/bank_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *BankAccount) error
	FindAll(ctx context.Context) ([]BankAccount, error)
	FindByID(ctx context.Context, id string) (*BankAccount, error)
	FindByIDForUpdate(ctx context.Context, id string) (*BankAccount, error)
	Save(ctx context.Context, account *BankAccount) error
	AppendTransaction(ctx context.Context, txn *BankTransaction) error
	FindTransactionByID(ctx context.Context, id string) (*BankTransaction, error)
	FindTransactions(ctx context.Context, accountID string, limit int) ([]BankTransaction, error)
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

func (r *repository) Create(ctx context.Context, account *BankAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) FindAll(ctx context.Context) ([]BankAccount, error) {
	var accounts []BankAccount
	err := r.db.WithContext(ctx).Order("account_name ASC").Find(&accounts).Error
	return accounts, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*BankAccount, error) {
	var a BankAccount
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

// FindByIDForUpdate row-locks the account so concurrent balance
// mutations inside transactions serialize instead of clobbering.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*BankAccount, error) {
	var a BankAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) Save(ctx context.Context, account *BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) AppendTransaction(ctx context.Context, txn *BankTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindTransactionByID(ctx context.Context, id string) (*BankTransaction, error) {
	var t BankTransaction
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindTransactions(ctx context.Context, accountID string, limit int) ([]BankTransaction, error) {
	var txns []BankTransaction
	q := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txns).Error
	return txns, err
}
