package app

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/bank"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/config"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/customer"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/employee"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/invoice"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/messaging/kafka"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payment"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/sales"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	customerRepo := customer.NewRepository(gormDB)
	bankRepo := bank.NewRepository(gormDB)
	salesRepo := sales.NewRepository(gormDB)
	invoiceRepo := invoice.NewRepository(gormDB)

	// --- Calculation Core ---
	amortizer := loan.NewAmortizer(cfg.LoanAnnualRate)
	statutory := payroll.NewStatutoryCalculator(cfg.Statutory)
	calculator := payroll.NewCalculator(statutory)
	ledger := bank.NewLedger(bankRepo, counterRepo)

	// --- Services ---
	employeeService := employee.NewService(gormDB, employeeRepo)
	loanService := loan.NewService(gormDB, loanRepo, amortizer)
	payrollService := payroll.NewServiceWithOutbox(gormDB, payrollRepo, employeeRepo, loanRepo, calculator, outboxRepo)
	customerService := customer.NewService(gormDB, customerRepo)
	bankService := bank.NewService(gormDB, bankRepo, ledger)
	invoiceService := invoice.NewService(invoice.ServiceDeps{
		DB:           gormDB,
		Repo:         invoiceRepo,
		CustomerRepo: customerRepo,
		SalesRepo:    salesRepo,
		CounterRepo:  counterRepo,
		Ledger:       ledger,
		Outbox:       outboxRepo,
		TermDays:     cfg.PaymentTermDays,
	})
	paymentService := payment.NewService(payment.ServiceDeps{
		DB:          gormDB,
		PayrollRepo: payrollRepo,
		LoanRepo:    loanRepo,
		BankRepo:    bankRepo,
		Ledger:      ledger,
		Outbox:      outboxRepo,
	})

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	loanHandler := loan.NewHandler(loanService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	customerHandler := customer.NewHandler(customerService)
	bankHandler := bank.NewHandler(bankService)
	invoiceHandler := invoice.NewHandler(invoiceService)
	paymentHandler := payment.NewHandlerWithRedis(paymentService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		loan.RegisterRoutes(api, loanHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		customer.RegisterRoutes(api, customerHandler)
		bank.RegisterRoutes(api, bankHandler)
		invoice.RegisterRoutes(api, invoiceHandler, rdb)
		payment.RegisterRoutes(api, paymentHandler, rdb)
	}

	return nil
}
