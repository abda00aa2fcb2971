package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/customer"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/invoice"
	invoiceerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/invoice/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/sales"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeInvoiceRepository struct {
	invoice.Repository
	stored          *invoice.Invoice
	created         []*invoice.Invoice
	saved           []*invoice.Invoice
	appendedPayment []*invoice.InvoicePayment
}

func (f *fakeInvoiceRepository) WithTx(tx *gorm.DB) invoice.Repository { return f }

func (f *fakeInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	f.created = append(f.created, inv)
	return nil
}

func (f *fakeInvoiceRepository) FindByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	if f.stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.stored, nil
}

func (f *fakeInvoiceRepository) FindByIDForUpdate(ctx context.Context, id string) (*invoice.Invoice, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	f.saved = append(f.saved, inv)
	return nil
}

func (f *fakeInvoiceRepository) AppendPayment(ctx context.Context, p *invoice.InvoicePayment) error {
	f.appendedPayment = append(f.appendedPayment, p)
	return nil
}

type fakeCustomerRepository struct {
	customer.Repository
	stored *customer.Customer
	saved  []*customer.Customer
}

func (f *fakeCustomerRepository) WithTx(tx *gorm.DB) customer.Repository { return f }

func (f *fakeCustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	if f.stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.stored, nil
}

func (f *fakeCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	f.saved = append(f.saved, c)
	return nil
}

type fakeSalesRepository struct {
	sales.Repository
	uninvoiced   []sales.Sale
	markedIDs    []uuid.UUID
	markedTarget uuid.UUID
	cleared      []uuid.UUID
}

func (f *fakeSalesRepository) WithTx(tx *gorm.DB) sales.Repository { return f }

func (f *fakeSalesRepository) FindUninvoicedCredit(ctx context.Context, customerID string, from, to time.Time) ([]sales.Sale, error) {
	return f.uninvoiced, nil
}

func (f *fakeSalesRepository) MarkInvoiced(ctx context.Context, saleIDs []uuid.UUID, invoiceID uuid.UUID) error {
	f.markedIDs = append(f.markedIDs, saleIDs...)
	f.markedTarget = invoiceID
	return nil
}

func (f *fakeSalesRepository) ClearInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	f.cleared = append(f.cleared, invoiceID)
	return nil
}

type fakeBankRepository struct {
	bank.Repository
	account      *bank.BankAccount
	transactions []*bank.BankTransaction
	saveCount    int
}

func (f *fakeBankRepository) WithTx(tx *gorm.DB) bank.Repository { return f }

func (f *fakeBankRepository) FindByID(ctx context.Context, id string) (*bank.BankAccount, error) {
	if f.account == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.account, nil
}

func (f *fakeBankRepository) FindByIDForUpdate(ctx context.Context, id string) (*bank.BankAccount, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBankRepository) Save(ctx context.Context, account *bank.BankAccount) error {
	f.saveCount++
	return nil
}

func (f *fakeBankRepository) AppendTransaction(ctx context.Context, txn *bank.BankTransaction) error {
	f.transactions = append(f.transactions, txn)
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) WithTx(tx *gorm.DB) counter.Repository { return f }

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type invoiceServiceDeps struct {
	sqlMock      sqlmock.Sqlmock
	service      invoice.Service
	repo         *fakeInvoiceRepository
	customerRepo *fakeCustomerRepository
	salesRepo    *fakeSalesRepository
	bankRepo     *fakeBankRepository
	close        func()
}

func setupInvoiceServiceTest(t *testing.T) *invoiceServiceDeps {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	repo := &fakeInvoiceRepository{}
	customerRepo := &fakeCustomerRepository{}
	salesRepo := &fakeSalesRepository{}
	bankRepo := &fakeBankRepository{}

	svc := invoice.NewService(invoice.ServiceDeps{
		DB:           db,
		Repo:         repo,
		CustomerRepo: customerRepo,
		SalesRepo:    salesRepo,
		CounterRepo:  &fakeCounterRepository{},
		Ledger:       bank.NewLedger(bankRepo, &fakeCounterRepository{}),
	})

	return &invoiceServiceDeps{
		sqlMock:      sqlMock,
		service:      svc,
		repo:         repo,
		customerRepo: customerRepo,
		salesRepo:    salesRepo,
		bankRepo:     bankRepo,
		close:        func() { sqlDB.Close() },
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func creditCustomer(balance string) *customer.Customer {
	c := &customer.Customer{
		ID:   uuid.New(),
		Name: "Ceylon Transport",
		CreditAccount: customer.CreditAccount{
			IsEnabled:       true,
			Status:          customer.CreditStatusActive,
			CreditLimit:     decimal.RequireFromString("500000.00"),
			CurrentBalance:  decimal.RequireFromString(balance),
			PaymentTermDays: 14,
		},
	}
	c.CreditAccount.AvailableCredit = c.CreditAccount.CreditLimit.Sub(c.CreditAccount.CurrentBalance)
	return c
}

func storedInvoice(customerID uuid.UUID, total string) *invoice.Invoice {
	issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &invoice.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-2025-00042",
		CustomerID:    customerID,
		Items: []invoice.InvoiceItem{
			{
				ID:          uuid.New(),
				Description: "Diesel",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.RequireFromString(total),
			},
		},
		DiscountType: invoice.DiscountNone,
		IssueDate:    issue,
		DueDate:      issue.AddDate(0, 0, 14),
	}
	inv.Recompute(issue)
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("credit customer balance rises by the invoice total", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("0.00")
		deps.customerRepo.stored = cust

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Create(ctx, invoice.CreateInvoiceRequest{
			CustomerID: cust.ID.String(),
			Items: []invoice.ItemRequest{
				{Description: "Diesel", Quantity: "100", UnitPrice: "10.00"},
			},
			TaxRate:       "15",
			DiscountType:  invoice.DiscountFixed,
			DiscountValue: "50",
		})

		assert.NoError(t, err)
		assert.Equal(t, "1100.00", resp.TotalAmount)
		assert.Equal(t, invoice.StatusUnpaid, resp.PaymentStatus)
		assert.Len(t, deps.repo.created, 1)
		assert.Len(t, deps.customerRepo.saved, 1)
		assert.Equal(t, "1100.00", cust.CreditAccount.CurrentBalance.StringFixed(2))
	})

	t.Run("due date follows the customer payment term", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("0.00")
		deps.customerRepo.stored = cust

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Create(ctx, invoice.CreateInvoiceRequest{
			CustomerID: cust.ID.String(),
			Items:      []invoice.ItemRequest{{Description: "Petrol 95", Quantity: "10", UnitPrice: "5.00"}},
			IssueDate:  "2025-03-01",
		})

		assert.NoError(t, err)
		created := deps.repo.created[0]
		assert.Equal(t, "2025-03-15", created.DueDate.Format("2006-01-02"))
	})
}

func TestInvoiceService_AddPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("bank transfer records the deposit with the invoice", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("1100.00")
		deps.customerRepo.stored = cust
		deps.repo.stored = storedInvoice(cust.ID, "1100.00")

		accountID := uuid.New()
		deps.bankRepo.account = &bank.BankAccount{
			ID:             accountID,
			CurrentBalance: decimal.RequireFromString("5000.00"),
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.AddPayment(ctx, deps.repo.stored.ID.String(), invoice.AddPaymentRequest{
			Amount:        "1100.00",
			Method:        invoice.PaymentMethodBankTransfer,
			BankAccountID: accountID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, invoice.StatusPaid, resp.PaymentStatus)
		assert.Equal(t, "0.00", resp.AmountDue)

		// Deposit and invoice write happen in the same unit of work.
		assert.Len(t, deps.bankRepo.transactions, 1)
		assert.Equal(t, bank.TransactionTypeDeposit, deps.bankRepo.transactions[0].Type)
		assert.Equal(t, "6100.00", deps.bankRepo.transactions[0].BalanceAfter.StringFixed(2))
		assert.Len(t, deps.repo.appendedPayment, 1)
		assert.NotNil(t, deps.repo.appendedPayment[0].BankTransactionID)
		assert.Len(t, deps.repo.saved, 1)

		// Customer credit released by the payment amount.
		assert.Equal(t, "0.00", cust.CreditAccount.CurrentBalance.StringFixed(2))
	})

	t.Run("second payment after settlement is rejected", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("0.00")
		deps.customerRepo.stored = cust
		inv := storedInvoice(cust.ID, "1100.00")
		_, err := inv.ApplyPayment(decimal.RequireFromString("1100.00"), invoice.PaymentMethodCash, "", inv.IssueDate)
		assert.NoError(t, err)
		deps.repo.stored = inv

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.AddPayment(ctx, inv.ID.String(), invoice.AddPaymentRequest{
			Amount: "10.00",
			Method: invoice.PaymentMethodCash,
		})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeBusinessRuleViolation, appErr.Code)
		assert.Empty(t, deps.repo.appendedPayment)
	})

	t.Run("bank transfer without account id is rejected up front", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		_, err := deps.service.AddPayment(ctx, uuid.New().String(), invoice.AddPaymentRequest{
			Amount: "10.00",
			Method: invoice.PaymentMethodBankTransfer,
		})

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeValidationError, appErr.Code)
	})
}

func TestInvoiceService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("releases outstanding credit and frees the swept sales", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("1100.00")
		deps.customerRepo.stored = cust
		inv := storedInvoice(cust.ID, "1100.00")
		deps.repo.stored = inv

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Cancel(ctx, inv.ID.String(), invoice.CancelInvoiceRequest{Reason: "data entry error"})

		assert.NoError(t, err)
		assert.Equal(t, invoice.StatusCancelled, resp.PaymentStatus)
		assert.Equal(t, "0.00", cust.CreditAccount.CurrentBalance.StringFixed(2))
		assert.Equal(t, []uuid.UUID{inv.ID}, deps.salesRepo.cleared)
	})

	t.Run("rejected on a paid invoice", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("0.00")
		deps.customerRepo.stored = cust
		inv := storedInvoice(cust.ID, "1100.00")
		_, err := inv.ApplyPayment(decimal.RequireFromString("1100.00"), invoice.PaymentMethodCash, "", inv.IssueDate)
		assert.NoError(t, err)
		deps.repo.stored = inv

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Cancel(ctx, inv.ID.String(), invoice.CancelInvoiceRequest{})

		assert.ErrorIs(t, err, invoiceerrors.ErrCancelPaidInvoice)
	})
}

func TestInvoiceService_GenerateFromSales(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates sales by fuel type into one invoice", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("0.00")
		deps.customerRepo.stored = cust

		saleIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		custID := cust.ID
		deps.salesRepo.uninvoiced = []sales.Sale{
			{
				ID: saleIDs[0], CustomerID: &custID, FuelType: "Diesel",
				Quantity:    decimal.RequireFromString("40"),
				TotalAmount: decimal.RequireFromString("400.00"),
			},
			{
				ID: saleIDs[1], CustomerID: &custID, FuelType: "Diesel",
				Quantity:    decimal.RequireFromString("60"),
				TotalAmount: decimal.RequireFromString("600.00"),
			},
			{
				ID: saleIDs[2], CustomerID: &custID, FuelType: "Petrol 95",
				Quantity:    decimal.RequireFromString("20"),
				TotalAmount: decimal.RequireFromString("300.00"),
			},
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.GenerateFromSales(ctx, invoice.GenerateFromSalesRequest{
			CustomerID: cust.ID.String(),
			FromDate:   "2025-03-01",
			ToDate:     "2025-03-31",
		})

		assert.NoError(t, err)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, "Diesel", resp.Items[0].Description)
		assert.Equal(t, "100", resp.Items[0].Quantity)
		assert.Equal(t, "10.00", resp.Items[0].UnitPrice)
		assert.Equal(t, "1300.00", resp.TotalAmount)

		assert.ElementsMatch(t, saleIDs, deps.salesRepo.markedIDs)
		assert.Equal(t, deps.repo.created[0].ID, deps.salesRepo.markedTarget)
		assert.Equal(t, "1300.00", cust.CreditAccount.CurrentBalance.StringFixed(2))
	})

	t.Run("fails when no qualifying sales exist", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		deps.customerRepo.stored = creditCustomer("0.00")

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.GenerateFromSales(ctx, invoice.GenerateFromSalesRequest{
			CustomerID: deps.customerRepo.stored.ID.String(),
			FromDate:   "2025-03-01",
			ToDate:     "2025-03-31",
		})

		assert.ErrorIs(t, err, invoiceerrors.ErrNoQualifyingSales)
	})

	t.Run("fails when the credit account is disabled", func(t *testing.T) {
		deps := setupInvoiceServiceTest(t)
		defer deps.close()

		cust := creditCustomer("0.00")
		cust.CreditAccount.IsEnabled = false
		deps.customerRepo.stored = cust

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.GenerateFromSales(ctx, invoice.GenerateFromSalesRequest{
			CustomerID: cust.ID.String(),
			FromDate:   "2025-03-01",
			ToDate:     "2025-03-31",
		})

		assert.ErrorIs(t, err, invoiceerrors.ErrCreditAccountDisabled)
	})
}
