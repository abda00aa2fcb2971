package payroll

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/config"
	payrollerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/money"

	"github.com/shopspring/decimal"
)

// Contributions holds the statutory retirement-fund amounts computed
// from one gross salary.
type Contributions struct {
	EmployeeEPF   decimal.Decimal
	EmployerEPF   decimal.Decimal
	ETF           decimal.Decimal
	TotalEmployer decimal.Decimal
}

// StatutoryCalculator computes provident-fund and trust-fund
// contributions from gross pay. Rates are injected at construction so
// nothing reads process-wide configuration.
type StatutoryCalculator struct {
	rates config.StatutoryRates
}

func NewStatutoryCalculator(rates config.StatutoryRates) StatutoryCalculator {
	return StatutoryCalculator{rates: rates}
}

// Calculate is a pure function of gross pay; each amount is rounded to
// 2 decimal places. Negative gross is rejected.
func (c StatutoryCalculator) Calculate(gross decimal.Decimal) (Contributions, error) {
	if gross.IsNegative() {
		return Contributions{}, payrollerrors.ErrNegativeGrossSalary
	}

	contrib := Contributions{
		EmployeeEPF: money.Percent(gross, c.rates.EmployeeEPF),
		EmployerEPF: money.Percent(gross, c.rates.EmployerEPF),
		ETF:         money.Percent(gross, c.rates.ETF),
	}
	contrib.TotalEmployer = contrib.EmployerEPF.Add(contrib.ETF)

	return contrib, nil
}
