package loan_test

import (
	"testing"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/loan"

	"github.com/google/uuid"
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

func uuidMust(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func TestAmortizer_ComputeSchedule(t *testing.T) {
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("twelve month flat interest schedule", func(t *testing.T) {
		amortizer := loan.NewAmortizer(d("23"))
		schedule := amortizer.ComputeSchedule(d("12000"), 12, start)

		assert.True(t, d("2760.00").Equal(schedule.Interest), "interest = %s", schedule.Interest)
		assert.True(t, d("14760.00").Equal(schedule.TotalRepayable))
		assert.True(t, d("1230.00").Equal(schedule.MonthlyInstallment))
		assert.Len(t, schedule.Installments, 12)

		final := schedule.Installments[11]
		assert.Equal(t, 12, final.Number)
		assert.True(t, final.RemainingBalance.IsZero(), "final remaining = %s", final.RemainingBalance)
	})

	t.Run("installment amounts sum to total repayable", func(t *testing.T) {
		amortizer := loan.NewAmortizer(d("23"))
		schedule := amortizer.ComputeSchedule(d("10000"), 7, start)

		sum := decimal.Zero
		for _, inst := range schedule.Installments {
			sum = sum.Add(inst.Amount)
		}
		assert.True(t, sum.Equal(schedule.TotalRepayable),
			"sum %s != total %s", sum, schedule.TotalRepayable)
	})

	t.Run("final installment absorbs rounding drift", func(t *testing.T) {
		// 1000 + 23% x 3/12 = 1057.50, / 3 = 352.50 exact; use a
		// principal that does not divide evenly instead.
		amortizer := loan.NewAmortizer(d("10"))
		schedule := amortizer.ComputeSchedule(d("100"), 3, start)

		// interest 2.50, total 102.50, monthly round2(34.166..) = 34.17
		assert.True(t, d("34.17").Equal(schedule.MonthlyInstallment))
		assert.True(t, d("34.16").Equal(schedule.Installments[2].Amount),
			"final amount = %s", schedule.Installments[2].Amount)
		assert.True(t, schedule.Installments[2].RemainingBalance.IsZero())
	})

	t.Run("remaining balance is non increasing and floored at zero", func(t *testing.T) {
		amortizer := loan.NewAmortizer(d("23"))
		schedule := amortizer.ComputeSchedule(d("5500"), 10, start)

		prev := schedule.TotalRepayable
		for _, inst := range schedule.Installments {
			assert.True(t, inst.RemainingBalance.LessThanOrEqual(prev),
				"installment %d remaining %s > previous %s", inst.Number, inst.RemainingBalance, prev)
			assert.False(t, inst.RemainingBalance.IsNegative())
			prev = inst.RemainingBalance
		}
	})

	t.Run("due dates keep the start day of month", func(t *testing.T) {
		amortizer := loan.NewAmortizer(d("23"))
		schedule := amortizer.ComputeSchedule(d("1200"), 4, start)

		for k, inst := range schedule.Installments {
			assert.Equal(t, start.AddDate(0, k, 0), inst.DueDate)
		}
		assert.Equal(t, 15, schedule.Installments[3].DueDate.Day())
	})

	t.Run("single installment repays everything at once", func(t *testing.T) {
		amortizer := loan.NewAmortizer(d("23"))
		schedule := amortizer.ComputeSchedule(d("600"), 1, start)

		assert.Len(t, schedule.Installments, 1)
		assert.True(t, schedule.Installments[0].Amount.Equal(schedule.TotalRepayable))
		assert.True(t, schedule.Installments[0].RemainingBalance.IsZero())
	})
}

func TestLoan_ApplyAndRevertInstallmentPayment(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	amortizer := loan.NewAmortizer(d("23"))
	schedule := amortizer.ComputeSchedule(d("2000"), 2, start)

	build := func() *loan.Loan {
		l := &loan.Loan{
			TotalRepayable:  schedule.TotalRepayable,
			RemainingAmount: schedule.TotalRepayable,
			Status:          loan.StatusActive,
		}
		for _, si := range schedule.Installments {
			l.Installments = append(l.Installments, loan.LoanInstallment{
				Number:           si.Number,
				Amount:           si.Amount,
				RemainingBalance: si.RemainingBalance,
				Status:           loan.InstallmentStatusPending,
			})
		}
		return l
	}

	t.Run("applying all installments completes the loan", func(t *testing.T) {
		l := build()
		payrollID := uuidMust(t)

		for i := range l.Installments {
			next := l.NextPendingInstallment()
			assert.NotNil(t, next)
			assert.Equal(t, i+1, next.Number)
			l.ApplyInstallmentPayment(next, payrollID)
		}

		assert.True(t, l.RemainingAmount.IsZero())
		assert.Equal(t, loan.StatusCompleted, l.Status)
		assert.Nil(t, l.NextPendingInstallment())
	})

	t.Run("revert restores pending status and remaining amount", func(t *testing.T) {
		l := build()
		payrollID := uuidMust(t)

		first := l.NextPendingInstallment()
		l.ApplyInstallmentPayment(first, payrollID)
		assert.Equal(t, loan.InstallmentStatusPaid, first.Status)
		assert.NotNil(t, first.PaidByPayrollID)

		l.RevertInstallmentPayment(first)
		assert.Equal(t, loan.InstallmentStatusPending, first.Status)
		assert.Nil(t, first.PaidByPayrollID)
		assert.True(t, l.RemainingAmount.Equal(l.TotalRepayable))
		assert.Equal(t, loan.StatusActive, l.Status)
	})

	t.Run("revert reactivates a completed loan", func(t *testing.T) {
		l := build()
		payrollID := uuidMust(t)

		for range l.Installments {
			l.ApplyInstallmentPayment(l.NextPendingInstallment(), payrollID)
		}
		assert.Equal(t, loan.StatusCompleted, l.Status)

		l.RevertInstallmentPayment(&l.Installments[1])
		assert.Equal(t, loan.StatusActive, l.Status)
		assert.True(t, l.RemainingAmount.Equal(l.Installments[1].Amount))
	})
}
