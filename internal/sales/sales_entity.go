package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodCredit = "credit"
)

// Sale is a single fuel dispense. Credit sales carry a nil InvoiceID
// until an invoice run sweeps them up.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	FuelType      string          `gorm:"type:varchar(40);not null"`
	Quantity      decimal.Decimal `gorm:"type:numeric(10,3);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	SaleDate      time.Time       `gorm:"not null;index"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
