package payroll

import (
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/employee"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan"
	payrollerrors "github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/payroll/errors"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtraEarnings are the per-cycle earnings supplied by the caller on
// top of the employee's salary structure.
type ExtraEarnings struct {
	Overtime      decimal.Decimal
	Bonuses       decimal.Decimal
	OtherEarnings decimal.Decimal
}

// ExtraDeductions are the per-cycle deductions beyond statutory
// contributions and loan installments.
type ExtraDeductions struct {
	Advances        decimal.Decimal
	OtherDeductions decimal.Decimal
}

// LoanDeduction identifies one consumed loan installment so the caller
// can mark it paid after the payroll record persists.
type LoanDeduction struct {
	LoanID        uuid.UUID
	InstallmentID uuid.UUID
	Number        int
	Amount        decimal.Decimal
}

// Calculation is the full payroll computation for one employee and
// period, before persistence.
type Calculation struct {
	BasicSalary     decimal.Decimal
	TotalAllowances decimal.Decimal
	Overtime        decimal.Decimal
	Bonuses         decimal.Decimal
	OtherEarnings   decimal.Decimal
	GrossSalary     decimal.Decimal

	Contributions Contributions

	LoanRepayment   decimal.Decimal
	LoanDeductions  []LoanDeduction
	Advances        decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal

	NetSalary decimal.Decimal
}

// Calculator combines an employee's salary structure, their active loan
// installments, extra earnings/deductions, and statutory contributions
// into one payroll calculation.
type Calculator struct {
	statutory StatutoryCalculator
}

func NewCalculator(statutory StatutoryCalculator) Calculator {
	return Calculator{statutory: statutory}
}

// Calculate fails when the employee has no basic salary configured.
// At most one pending installment per active loan is consumed.
func (c Calculator) Calculate(
	emp *employee.Employee,
	activeLoans []loan.Loan,
	extraEarnings ExtraEarnings,
	extraDeductions ExtraDeductions,
) (Calculation, error) {
	if !emp.BasicSalary.GreaterThan(decimal.Zero) {
		return Calculation{}, payrollerrors.ErrMissingBasicSalary
	}

	calc := Calculation{
		BasicSalary:     emp.BasicSalary,
		TotalAllowances: emp.TotalAllowances(),
		Overtime:        extraEarnings.Overtime,
		Bonuses:         extraEarnings.Bonuses,
		OtherEarnings:   extraEarnings.OtherEarnings,
		Advances:        extraDeductions.Advances,
		OtherDeductions: extraDeductions.OtherDeductions,
	}

	calc.GrossSalary = money.Round2(
		calc.BasicSalary.
			Add(calc.TotalAllowances).
			Add(calc.Overtime).
			Add(calc.Bonuses).
			Add(calc.OtherEarnings),
	)

	contrib, err := c.statutory.Calculate(calc.GrossSalary)
	if err != nil {
		return Calculation{}, err
	}
	calc.Contributions = contrib

	calc.LoanRepayment = decimal.Zero
	for i := range activeLoans {
		l := &activeLoans[i]
		if l.Status != loan.StatusActive {
			continue
		}
		inst := l.NextPendingInstallment()
		if inst == nil {
			continue
		}
		calc.LoanRepayment = calc.LoanRepayment.Add(inst.Amount)
		calc.LoanDeductions = append(calc.LoanDeductions, LoanDeduction{
			LoanID:        l.ID,
			InstallmentID: inst.ID,
			Number:        inst.Number,
			Amount:        inst.Amount,
		})
	}

	calc.TotalDeductions = money.Round2(
		contrib.EmployeeEPF.
			Add(calc.LoanRepayment).
			Add(calc.Advances).
			Add(calc.OtherDeductions),
	)

	calc.NetSalary = money.Round2(calc.GrossSalary.Sub(calc.TotalDeductions))

	return calc, nil
}
