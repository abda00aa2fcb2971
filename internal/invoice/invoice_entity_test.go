package invoice

import (
	"errors"
	"testing"
	"time"

	invoiceerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/invoice/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func buildTestInvoice(discountType, discountValue string) *Invoice {
	issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-2025-00001",
		CustomerID:    uuid.New(),
		Items: []InvoiceItem{
			{
				ID:          uuid.New(),
				Description: "Diesel",
				Quantity:    decimal.RequireFromString("100"),
				UnitPrice:   decimal.RequireFromString("10.00"),
			},
		},
		TaxRate:       decimal.RequireFromString("15"),
		DiscountType:  discountType,
		DiscountValue: decimal.RequireFromString(discountValue),
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 30),
	}
	inv.Recompute(issue)
	return inv
}

func TestRecompute(t *testing.T) {
	t.Run("fixed discount totals", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")

		assert.Equal(t, "1000.00", inv.Subtotal.StringFixed(2))
		assert.Equal(t, "150.00", inv.TaxAmount.StringFixed(2))
		assert.Equal(t, "50.00", inv.DiscountAmount.StringFixed(2))
		assert.Equal(t, "1100.00", inv.TotalAmount.StringFixed(2))
		assert.Equal(t, "1100.00", inv.AmountDue.StringFixed(2))
		assert.Equal(t, StatusUnpaid, inv.PaymentStatus)
	})

	t.Run("percentage discount", func(t *testing.T) {
		inv := buildTestInvoice(DiscountPercentage, "10")

		assert.Equal(t, "100.00", inv.DiscountAmount.StringFixed(2))
		assert.Equal(t, "1050.00", inv.TotalAmount.StringFixed(2))
	})

	t.Run("idempotent without new payments", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")
		now := inv.IssueDate

		inv.Recompute(now)
		first := *inv
		inv.Recompute(now)

		assert.Equal(t, first.Subtotal.StringFixed(2), inv.Subtotal.StringFixed(2))
		assert.Equal(t, first.TotalAmount.StringFixed(2), inv.TotalAmount.StringFixed(2))
		assert.Equal(t, first.AmountDue.StringFixed(2), inv.AmountDue.StringFixed(2))
		assert.Equal(t, first.PaymentStatus, inv.PaymentStatus)
	})

	t.Run("overdue when past due date with balance", func(t *testing.T) {
		inv := buildTestInvoice(DiscountNone, "0")

		inv.Recompute(inv.DueDate.AddDate(0, 0, 1))

		assert.Equal(t, StatusOverdue, inv.PaymentStatus)
	})

	t.Run("cancelled is never overridden", func(t *testing.T) {
		inv := buildTestInvoice(DiscountNone, "0")
		_, err := inv.Cancel("duplicate", inv.IssueDate)
		assert.NoError(t, err)

		inv.Recompute(inv.IssueDate)

		assert.Equal(t, StatusCancelled, inv.PaymentStatus)
	})
}

func TestApplyPayment(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("full payment settles the invoice", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")

		payment, err := inv.ApplyPayment(decimal.RequireFromString("1100.00"), PaymentMethodCash, "", now)

		assert.NoError(t, err)
		assert.Equal(t, "1100.00", payment.Amount.StringFixed(2))
		assert.Equal(t, "1100.00", inv.AmountPaid.StringFixed(2))
		assert.Equal(t, "0.00", inv.AmountDue.StringFixed(2))
		assert.Equal(t, StatusPaid, inv.PaymentStatus)
	})

	t.Run("partial payment", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")

		_, err := inv.ApplyPayment(decimal.RequireFromString("400.00"), PaymentMethodCash, "", now)

		assert.NoError(t, err)
		assert.Equal(t, "700.00", inv.AmountDue.StringFixed(2))
		assert.Equal(t, StatusPartial, inv.PaymentStatus)
	})

	t.Run("rejects payment against settled invoice", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")
		_, err := inv.ApplyPayment(decimal.RequireFromString("1100.00"), PaymentMethodCash, "", now)
		assert.NoError(t, err)

		_, err = inv.ApplyPayment(decimal.RequireFromString("0.01"), PaymentMethodCash, "", now)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeBusinessRuleViolation, appErr.Code)
	})

	t.Run("rejects amount above amount due with amounts in context", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")

		_, err := inv.ApplyPayment(decimal.RequireFromString("1200.00"), PaymentMethodCash, "", now)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		details, ok := appErr.Details.(map[string]string)
		assert.True(t, ok)
		assert.Equal(t, "1200.00", details["amount"])
		assert.Equal(t, "1100.00", details["amount_due"])
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")

		_, err := inv.ApplyPayment(decimal.Zero, PaymentMethodCash, "", now)

		assert.ErrorIs(t, err, invoiceerrors.ErrNonPositivePayment)
	})

	t.Run("accounting identity holds after every mutation", func(t *testing.T) {
		inv := buildTestInvoice(DiscountPercentage, "5")

		for _, amount := range []string{"100.00", "250.00", "300.00"} {
			_, err := inv.ApplyPayment(decimal.RequireFromString(amount), PaymentMethodCash, "", now)
			assert.NoError(t, err)

			expectedTotal := inv.Subtotal.Add(inv.TaxAmount).Sub(inv.DiscountAmount)
			assert.True(t, inv.TotalAmount.Equal(expectedTotal))
			assert.True(t, inv.AmountDue.Equal(inv.TotalAmount.Sub(inv.AmountPaid)))
		}
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("returns outstanding amount and records a note", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")
		_, err := inv.ApplyPayment(decimal.RequireFromString("100.00"), PaymentMethodCash, "", now)
		assert.NoError(t, err)

		outstanding, err := inv.Cancel("customer dispute", now)

		assert.NoError(t, err)
		assert.Equal(t, "1000.00", outstanding.StringFixed(2))
		assert.Equal(t, StatusCancelled, inv.PaymentStatus)
		assert.Contains(t, inv.Notes, "customer dispute")
	})

	t.Run("rejected on paid invoice", func(t *testing.T) {
		inv := buildTestInvoice(DiscountFixed, "50")
		_, err := inv.ApplyPayment(decimal.RequireFromString("1100.00"), PaymentMethodCash, "", now)
		assert.NoError(t, err)

		_, err = inv.Cancel("", now)

		assert.ErrorIs(t, err, invoiceerrors.ErrCancelPaidInvoice)
	})

	t.Run("rejected when already cancelled", func(t *testing.T) {
		inv := buildTestInvoice(DiscountNone, "0")
		_, err := inv.Cancel("", now)
		assert.NoError(t, err)

		_, err = inv.Cancel("", now)

		assert.ErrorIs(t, err, invoiceerrors.ErrInvoiceCancelled)
	})
}
