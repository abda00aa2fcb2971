package payroll_test

import (
	"testing"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/config"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll"
	payrollerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testRates() config.StatutoryRates {
	return config.StatutoryRates{
		EmployeeEPF: d("8"),
		EmployerEPF: d("12"),
		ETF:         d("3"),
	}
}

func TestStatutoryCalculator_Calculate(t *testing.T) {
	calc := payroll.NewStatutoryCalculator(testRates())

	t.Run("standard gross salary", func(t *testing.T) {
		contrib, err := calc.Calculate(d("50000"))
		assert.NoError(t, err)

		assert.True(t, d("4000.00").Equal(contrib.EmployeeEPF), "employee EPF = %s", contrib.EmployeeEPF)
		assert.True(t, d("6000.00").Equal(contrib.EmployerEPF))
		assert.True(t, d("1500.00").Equal(contrib.ETF))
		assert.True(t, d("7500.00").Equal(contrib.TotalEmployer))
	})

	t.Run("amounts are rounded to two decimals", func(t *testing.T) {
		contrib, err := calc.Calculate(d("33333.33"))
		assert.NoError(t, err)

		// 8% of 33333.33 = 2666.6664
		assert.True(t, d("2666.67").Equal(contrib.EmployeeEPF), "employee EPF = %s", contrib.EmployeeEPF)
		assert.Equal(t, int32(-2), contrib.EmployerEPF.Exponent())
	})

	t.Run("zero gross yields zero contributions", func(t *testing.T) {
		contrib, err := calc.Calculate(decimal.Zero)
		assert.NoError(t, err)
		assert.True(t, contrib.EmployeeEPF.IsZero())
		assert.True(t, contrib.TotalEmployer.IsZero())
	})

	t.Run("negative gross is rejected", func(t *testing.T) {
		_, err := calc.Calculate(d("-1"))
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeGrossSalary)
	})
}
