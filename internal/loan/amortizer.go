package loan

import (
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/money"

	"github.com/shopspring/decimal"
)

// ScheduledInstallment is one row of a computed repayment schedule,
// before it is persisted as a LoanInstallment.
type ScheduledInstallment struct {
	Number           int
	DueDate          time.Time
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
}

// Schedule is the full amortization result for a loan.
type Schedule struct {
	Interest           decimal.Decimal
	TotalRepayable     decimal.Decimal
	MonthlyInstallment decimal.Decimal
	Installments       []ScheduledInstallment
}

// Amortizer produces flat simple-interest repayment schedules. The
// annual rate is injected at construction; there is no package-level
// default.
type Amortizer struct {
	annualRate decimal.Decimal // percentage, e.g. 23 for 23%
}

func NewAmortizer(annualRate decimal.Decimal) Amortizer {
	return Amortizer{annualRate: annualRate}
}

var twelve = decimal.NewFromInt(12)

// ComputeSchedule builds the installment schedule for a loan:
//
//	interest           = principal x rate x months/12
//	totalRepayable     = principal + interest
//	monthlyInstallment = totalRepayable / months
//
// Installments fall due on the start date's day-of-month, 0..months-1
// months ahead. Rounding drift between monthlyInstallment x months and
// totalRepayable is absorbed into the final installment, so the amounts
// always sum to exactly totalRepayable and the final remaining balance
// is exactly zero. Callers must validate positivity of the inputs.
func (a Amortizer) ComputeSchedule(principal decimal.Decimal, months int, start time.Time) Schedule {
	monthsDec := decimal.NewFromInt(int64(months))

	interest := money.Round2(
		principal.Mul(a.annualRate).Div(money.Hundred).Mul(monthsDec).Div(twelve),
	)
	total := principal.Add(interest)
	monthly := money.Round2(total.Div(monthsDec))

	installments := make([]ScheduledInstallment, 0, months)
	remaining := total

	for k := 0; k < months; k++ {
		amount := monthly
		if k == months-1 {
			// final installment absorbs rounding drift
			amount = total.Sub(monthly.Mul(decimal.NewFromInt(int64(months - 1))))
		}

		remaining = remaining.Sub(amount)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		installments = append(installments, ScheduledInstallment{
			Number:           k + 1,
			DueDate:          start.AddDate(0, k, 0),
			Amount:           amount,
			RemainingBalance: remaining,
		})
	}

	return Schedule{
		Interest:           interest,
		TotalRepayable:     total,
		MonthlyInstallment: monthly,
		Installments:       installments,
	}
}
