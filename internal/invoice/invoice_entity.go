package invoice

import (
	"fmt"
	"time"

	invoiceerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/invoice/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusUnpaid    = "Unpaid"
	StatusPartial   = "Partial"
	StatusPaid      = "Paid"
	StatusOverdue   = "Overdue"
	StatusCancelled = "Cancelled"
)

const (
	DiscountNone       = "None"
	DiscountPercentage = "Percentage"
	DiscountFixed      = "Fixed"
)

const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheque       = "cheque"
)

type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(10,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time
}

type InvoicePayment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method            string          `gorm:"type:varchar(20);not null"`
	Reference         string          `gorm:"type:varchar(120)"`
	BankTransactionID *uuid.UUID      `gorm:"type:uuid"`
	Date              time.Time       `gorm:"not null"`
	CreatedAt         time.Time
}

type Invoice struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	InvoiceNumber  string           `gorm:"type:varchar(30);uniqueIndex;not null"`
	CustomerID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	Items          []InvoiceItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments       []InvoicePayment `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	TaxRate        decimal.Decimal  `gorm:"type:numeric(5,2);not null;default:0"`
	TaxAmount      decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	DiscountType   string           `gorm:"type:varchar(20);not null;default:'None'"`
	DiscountValue  decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	Subtotal       decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	AmountPaid     decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	AmountDue      decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	PaymentStatus  string           `gorm:"type:varchar(20);not null;default:'Unpaid'"`
	IssueDate      time.Time        `gorm:"not null"`
	DueDate        time.Time        `gorm:"not null;index"`
	Notes          string           `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Recompute derives every monetary field and the payment status from
// the items and payments. Safe to call any number of times; Cancelled
// is sticky and never overridden here.
func (inv *Invoice) Recompute(now time.Time) {
	subtotal := decimal.Zero
	for i := range inv.Items {
		inv.Items[i].Amount = money.Round2(inv.Items[i].Quantity.Mul(inv.Items[i].UnitPrice))
		subtotal = subtotal.Add(inv.Items[i].Amount)
	}
	inv.Subtotal = money.Round2(subtotal)

	inv.TaxAmount = money.Percent(inv.Subtotal, inv.TaxRate)

	switch inv.DiscountType {
	case DiscountPercentage:
		inv.DiscountAmount = money.Percent(inv.Subtotal, inv.DiscountValue)
	case DiscountFixed:
		inv.DiscountAmount = money.Round2(inv.DiscountValue)
	default:
		inv.DiscountAmount = decimal.Zero
	}

	inv.TotalAmount = money.Round2(inv.Subtotal.Add(inv.TaxAmount).Sub(inv.DiscountAmount))

	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
	}
	inv.AmountPaid = money.Round2(paid)
	inv.AmountDue = money.Round2(inv.TotalAmount.Sub(inv.AmountPaid))

	if inv.PaymentStatus == StatusCancelled {
		return
	}

	switch {
	case inv.AmountDue.LessThanOrEqual(decimal.Zero):
		inv.PaymentStatus = StatusPaid
	case inv.AmountPaid.GreaterThan(decimal.Zero):
		inv.PaymentStatus = StatusPartial
	case now.After(inv.DueDate):
		inv.PaymentStatus = StatusOverdue
	default:
		inv.PaymentStatus = StatusUnpaid
	}
}

// ApplyPayment validates the amount against the current amount due and
// appends the payment entry. The caller recomputes and persists.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, method, reference string, at time.Time) (*InvoicePayment, error) {
	if inv.PaymentStatus == StatusCancelled {
		return nil, invoiceerrors.ErrInvoiceCancelled
	}
	if !money.IsPositive(amount) {
		return nil, invoiceerrors.ErrNonPositivePayment
	}
	if amount.GreaterThan(inv.AmountDue) {
		return nil, apperror.BusinessRule("payment exceeds amount due", map[string]string{
			"amount":     amount.StringFixed(2),
			"amount_due": inv.AmountDue.StringFixed(2),
		})
	}

	payment := InvoicePayment{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		Amount:    money.Round2(amount),
		Method:    method,
		Reference: reference,
		Date:      at,
	}
	inv.Payments = append(inv.Payments, payment)
	inv.Recompute(at)

	return &inv.Payments[len(inv.Payments)-1], nil
}

// Cancel transitions to the terminal Cancelled state. Paid invoices
// cannot be cancelled. Returns the amount that was still outstanding so
// the caller can release the customer's credit.
func (inv *Invoice) Cancel(reason string, at time.Time) (decimal.Decimal, error) {
	switch inv.PaymentStatus {
	case StatusPaid:
		return decimal.Zero, invoiceerrors.ErrCancelPaidInvoice
	case StatusCancelled:
		return decimal.Zero, invoiceerrors.ErrInvoiceCancelled
	}

	outstanding := inv.AmountDue
	inv.PaymentStatus = StatusCancelled
	if reason == "" {
		reason = "cancelled"
	}
	note := fmt.Sprintf("[%s] %s", at.Format("2006-01-02"), reason)
	if inv.Notes != "" {
		inv.Notes += "\n"
	}
	inv.Notes += note

	return outstanding, nil
}
