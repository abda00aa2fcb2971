package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// StatutoryRates are the configured percentage rates for retirement-fund
// contributions. They are loaded once here and passed explicitly into
// the payroll calculator, never read from globals.
type StatutoryRates struct {
	EmployeeEPF decimal.Decimal // employee provident-fund deduction, % of gross
	EmployerEPF decimal.Decimal // employer provident-fund contribution, % of gross
	ETF         decimal.Decimal // employer trust-fund levy, % of gross
}

type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	Statutory          StatutoryRates
	LoanAnnualRate     decimal.Decimal // % flat simple interest per year
	PaymentTermDays    int             // default invoice due-date offset
	OutboxPollInterval time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		Port:         envOr("PORT", "8080"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBSSLMode:  envOr("DB_SSLMODE", "disable"),

		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),

		OutboxPollInterval: 3 * time.Second,
	}

	var err error
	if cfg.Statutory.EmployeeEPF, err = decimalEnv("EPF_EMPLOYEE_RATE", "8"); err != nil {
		return Config{}, err
	}
	if cfg.Statutory.EmployerEPF, err = decimalEnv("EPF_EMPLOYER_RATE", "12"); err != nil {
		return Config{}, err
	}
	if cfg.Statutory.ETF, err = decimalEnv("ETF_RATE", "3"); err != nil {
		return Config{}, err
	}
	if cfg.LoanAnnualRate, err = decimalEnv("LOAN_ANNUAL_RATE", "23"); err != nil {
		return Config{}, err
	}

	termDays := envOr("INVOICE_PAYMENT_TERM_DAYS", "30")
	cfg.PaymentTermDays, err = strconv.Atoi(termDays)
	if err != nil {
		return Config{}, fmt.Errorf("invalid INVOICE_PAYMENT_TERM_DAYS %q: %w", termDays, err)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	raw := envOr(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
