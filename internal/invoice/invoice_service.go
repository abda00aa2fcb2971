package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/customer"
	customererrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/customer/errors"
	invoiceerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/invoice/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/messaging/kafka"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/sales"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/contextutil"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/counter"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPaymentTermDays = 30

//go:generate mockgen -source=invoice_service.go -destination=mock/invoice_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetAll(ctx context.Context, customerID, status string) ([]InvoiceResponse, error)
	GetByID(ctx context.Context, id string) (InvoiceResponse, error)
	AddPayment(ctx context.Context, id string, req AddPaymentRequest) (InvoiceResponse, error)
	Cancel(ctx context.Context, id string, req CancelInvoiceRequest) (InvoiceResponse, error)
	GenerateFromSales(ctx context.Context, req GenerateFromSalesRequest) (InvoiceResponse, error)
}

type service struct {
	db           *gorm.DB
	repo         Repository
	customerRepo customer.Repository
	salesRepo    sales.Repository
	counterRepo  counter.Repository
	ledger       *bank.Ledger
	outbox       kafka.OutboxRepository
	termDays     int
	logger       *zap.Logger
}

type ServiceDeps struct {
	DB           *gorm.DB
	Repo         Repository
	CustomerRepo customer.Repository
	SalesRepo    sales.Repository
	CounterRepo  counter.Repository
	Ledger       *bank.Ledger
	Outbox       kafka.OutboxRepository
	TermDays     int
	Logger       *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	l := deps.Logger
	if l == nil {
		l = zap.L()
	}
	termDays := deps.TermDays
	if termDays <= 0 {
		termDays = defaultPaymentTermDays
	}
	return &service{
		db:           deps.DB,
		repo:         deps.Repo,
		customerRepo: deps.CustomerRepo,
		salesRepo:    deps.SalesRepo,
		counterRepo:  deps.CounterRepo,
		ledger:       deps.Ledger,
		outbox:       deps.Outbox,
		termDays:     termDays,
		logger:       l.Named("invoice.service"),
	}
}

func (s *service) Create(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	items, err := parseItems(req.Items)
	if err != nil {
		return InvoiceResponse{}, err
	}

	taxRate, err := parseOptionalDecimal(req.TaxRate, "tax_rate")
	if err != nil {
		return InvoiceResponse{}, err
	}
	discountValue, err := parseOptionalDecimal(req.DiscountValue, "discount_value")
	if err != nil {
		return InvoiceResponse{}, err
	}

	issueDate := time.Now()
	if req.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			return InvoiceResponse{}, apperror.InvalidField("issue_date")
		}
		issueDate = parsed
	}

	discountType := req.DiscountType
	if discountType == "" {
		discountType = DiscountNone
	}

	var created *Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cust, err := s.customerRepo.WithTx(tx).FindByID(ctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customererrors.ErrCustomerNotFound
			}
			return err
		}

		inv, err := s.buildInvoice(ctx, tx, cust, items, taxRate, discountType, discountValue, issueDate, req.Notes)
		if err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).Create(ctx, inv); err != nil {
			return err
		}

		// Credit customers carry the invoice total as outstanding
		// balance from the moment of issue.
		if cust.CreditAccount.IsEnabled {
			if err := cust.IncreaseCredit(inv.TotalAmount); err != nil {
				return err
			}
			if err := s.customerRepo.WithTx(tx).Save(ctx, cust); err != nil {
				return err
			}
		}

		created = inv
		return nil
	})
	if err != nil {
		s.logger.Warn("create invoice failed", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return InvoiceResponse{}, err
	}

	s.logger.Info("create invoice success",
		zap.String("invoice_id", created.ID.String()),
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("total", created.TotalAmount.StringFixed(2)),
	)
	return mapToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context, customerID, status string) ([]InvoiceResponse, error) {
	invoices, err := s.repo.FindAll(ctx, customerID, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(invoices), nil
}

func (s *service) GetByID(ctx context.Context, id string) (InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, invoiceerrors.ErrInvoiceNotFound
		}
		return InvoiceResponse{}, err
	}
	return mapToResponse(*inv), nil
}

// AddPayment applies a payment, and for bank transfers records the
// deposit in the same transaction as the invoice save so neither can
// exist without the other.
func (s *service) AddPayment(ctx context.Context, id string, req AddPaymentRequest) (InvoiceResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return InvoiceResponse{}, apperror.InvalidField("amount")
	}
	if req.Method == PaymentMethodBankTransfer && req.BankAccountID == "" {
		return InvoiceResponse{}, apperror.RequiredField("bank_account_id")
	}

	var updated *Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invoiceerrors.ErrInvoiceNotFound
			}
			return err
		}

		now := time.Now()
		payment, err := inv.ApplyPayment(amount, req.Method, req.Reference, now)
		if err != nil {
			return err
		}

		if req.Method == PaymentMethodBankTransfer {
			txn, err := s.ledger.Deposit(ctx, tx, req.BankAccountID, payment.Amount,
				inv.InvoiceNumber, fmt.Sprintf("invoice %s payment", inv.InvoiceNumber), now)
			if err != nil {
				return err
			}
			payment.BankTransactionID = &txn.ID
		}

		if err := qtx.AppendPayment(ctx, payment); err != nil {
			return err
		}
		if err := qtx.Save(ctx, inv); err != nil {
			return err
		}

		if err := s.releaseCustomerCredit(ctx, tx, inv.CustomerID, payment.Amount); err != nil {
			return err
		}

		if inv.PaymentStatus == StatusPaid {
			if err := s.writeOutboxEvent(ctx, tx, kafka.EventInvoicePaid, inv); err != nil {
				return err
			}
		}

		updated = inv
		return nil
	})
	if err != nil {
		s.logger.Warn("add payment failed",
			zap.String("invoice_id", id),
			zap.String("amount", req.Amount),
			zap.Error(err),
		)
		return InvoiceResponse{}, err
	}

	s.logger.Info("add payment success",
		zap.String("invoice_id", id),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", updated.PaymentStatus),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Cancel(ctx context.Context, id string, req CancelInvoiceRequest) (InvoiceResponse, error) {
	var updated *Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invoiceerrors.ErrInvoiceNotFound
			}
			return err
		}

		outstanding, err := inv.Cancel(req.Reason, time.Now())
		if err != nil {
			return err
		}

		if err := qtx.Save(ctx, inv); err != nil {
			return err
		}

		if money.IsPositive(outstanding) {
			if err := s.releaseCustomerCredit(ctx, tx, inv.CustomerID, outstanding); err != nil {
				return err
			}
		}

		// Sales swept into this invoice become invoiceable again.
		if err := s.salesRepo.WithTx(tx).ClearInvoice(ctx, inv.ID); err != nil {
			return err
		}

		if err := s.writeOutboxEvent(ctx, tx, kafka.EventInvoiceCancelled, inv); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err != nil {
		s.logger.Warn("cancel invoice failed", zap.String("invoice_id", id), zap.Error(err))
		return InvoiceResponse{}, err
	}

	s.logger.Info("cancel invoice success", zap.String("invoice_id", id))
	return mapToResponse(*updated), nil
}

// GenerateFromSales sweeps a customer's uninvoiced credit sales in the
// period into one invoice, aggregated by fuel type.
func (s *service) GenerateFromSales(ctx context.Context, req GenerateFromSalesRequest) (InvoiceResponse, error) {
	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		return InvoiceResponse{}, apperror.InvalidField("from_date")
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		return InvoiceResponse{}, apperror.InvalidField("to_date")
	}
	if to.Before(from) {
		return InvoiceResponse{}, apperror.InvalidField("to_date")
	}
	// Inclusive end of day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	taxRate, err := parseOptionalDecimal(req.TaxRate, "tax_rate")
	if err != nil {
		return InvoiceResponse{}, err
	}

	var created *Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cust, err := s.customerRepo.WithTx(tx).FindByID(ctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customererrors.ErrCustomerNotFound
			}
			return err
		}
		if !cust.CreditAccount.IsEnabled {
			return invoiceerrors.ErrCreditAccountDisabled
		}

		creditSales, err := s.salesRepo.WithTx(tx).FindUninvoicedCredit(ctx, req.CustomerID, from, to)
		if err != nil {
			return err
		}
		if len(creditSales) == 0 {
			return invoiceerrors.ErrNoQualifyingSales
		}

		items := aggregateSales(creditSales)

		inv, err := s.buildInvoice(ctx, tx, cust, items, taxRate, DiscountNone, decimal.Zero, time.Now(), req.Notes)
		if err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).Create(ctx, inv); err != nil {
			return err
		}

		saleIDs := make([]uuid.UUID, len(creditSales))
		for i, sale := range creditSales {
			saleIDs[i] = sale.ID
		}
		if err := s.salesRepo.WithTx(tx).MarkInvoiced(ctx, saleIDs, inv.ID); err != nil {
			return err
		}

		if err := cust.IncreaseCredit(inv.TotalAmount); err != nil {
			return err
		}
		if err := s.customerRepo.WithTx(tx).Save(ctx, cust); err != nil {
			return err
		}

		created = inv
		return nil
	})
	if err != nil {
		s.logger.Warn("generate from sales failed", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return InvoiceResponse{}, err
	}

	s.logger.Info("generate from sales success",
		zap.String("invoice_id", created.ID.String()),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.TotalAmount.StringFixed(2)),
	)
	return mapToResponse(*created), nil
}

func (s *service) buildInvoice(
	ctx context.Context,
	tx *gorm.DB,
	cust *customer.Customer,
	items []InvoiceItem,
	taxRate decimal.Decimal,
	discountType string,
	discountValue decimal.Decimal,
	issueDate time.Time,
	notes string,
) (*Invoice, error) {
	seq, err := s.counterRepo.WithTx(tx).GetNextValue(ctx, counter.TypeInvoice)
	if err != nil {
		return nil, err
	}

	termDays := cust.CreditAccount.PaymentTermDays
	if termDays <= 0 {
		termDays = s.termDays
	}

	inv := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: fmt.Sprintf("INV-%d-%05d", issueDate.Year(), seq),
		CustomerID:    cust.ID,
		Items:         items,
		TaxRate:       taxRate,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDate(0, 0, termDays),
		Notes:         notes,
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
	}
	inv.Recompute(issueDate)

	return inv, nil
}

// releaseCustomerCredit lowers the customer's outstanding balance when
// money comes in against a credit invoice. Customers without an enabled
// credit account carry no balance to release.
func (s *service) releaseCustomerCredit(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, amount decimal.Decimal) error {
	cust, err := s.customerRepo.WithTx(tx).FindByID(ctx, customerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return customererrors.ErrCustomerNotFound
		}
		return err
	}
	if !cust.CreditAccount.IsEnabled {
		return nil
	}

	if err := cust.DecreaseCredit(amount); err != nil {
		return err
	}
	return s.customerRepo.WithTx(tx).Save(ctx, cust)
}

func (s *service) writeOutboxEvent(ctx context.Context, tx *gorm.DB, eventType string, inv *Invoice) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"invoice_id":     inv.ID.String(),
		"invoice_number": inv.InvoiceNumber,
		"customer_id":    inv.CustomerID.String(),
		"total_amount":   inv.TotalAmount.StringFixed(2),
		"amount_due":     inv.AmountDue.StringFixed(2),
		"status":         inv.PaymentStatus,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "invoice",
		AggregateID:   inv.ID.String(),
		EventType:     eventType,
		Topic:         kafka.TopicInvoice,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseItems(reqs []ItemRequest) ([]InvoiceItem, error) {
	if len(reqs) == 0 {
		return nil, invoiceerrors.ErrNoItems
	}

	items := make([]InvoiceItem, len(reqs))
	for i, r := range reqs {
		qty, err := decimal.NewFromString(r.Quantity)
		if err != nil || !money.IsPositive(qty) {
			return nil, apperror.InvalidField("quantity")
		}
		price, err := decimal.NewFromString(r.UnitPrice)
		if err != nil || price.IsNegative() {
			return nil, apperror.InvalidField("unit_price")
		}
		items[i] = InvoiceItem{
			ID:          uuid.New(),
			Description: r.Description,
			Quantity:    qty,
			UnitPrice:   price,
		}
	}
	return items, nil
}

func parseOptionalDecimal(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil || parsed.IsNegative() {
		return decimal.Zero, apperror.InvalidField(field)
	}
	return parsed, nil
}

// aggregateSales folds credit sales into one line item per fuel type.
// Unit price is the aggregate amount over the aggregate quantity, so
// mixed-price periods still reconcile to the sum of the sales.
func aggregateSales(creditSales []sales.Sale) []InvoiceItem {
	type bucket struct {
		quantity decimal.Decimal
		amount   decimal.Decimal
	}

	order := make([]string, 0, 4)
	buckets := make(map[string]*bucket)
	for _, sale := range creditSales {
		b, ok := buckets[sale.FuelType]
		if !ok {
			b = &bucket{quantity: decimal.Zero, amount: decimal.Zero}
			buckets[sale.FuelType] = b
			order = append(order, sale.FuelType)
		}
		b.quantity = b.quantity.Add(sale.Quantity)
		b.amount = b.amount.Add(sale.TotalAmount)
	}

	items := make([]InvoiceItem, 0, len(order))
	for _, fuelType := range order {
		b := buckets[fuelType]
		unitPrice := decimal.Zero
		if !b.quantity.IsZero() {
			unitPrice = b.amount.Div(b.quantity).Round(4)
		}
		items = append(items, InvoiceItem{
			ID:          uuid.New(),
			Description: fuelType,
			Quantity:    b.quantity,
			UnitPrice:   unitPrice,
		})
	}
	return items
}
