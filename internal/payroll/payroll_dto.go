package payroll

type GeneratePayrollRequest struct {
	EmployeeID      string `json:"employee_id" binding:"required,uuid"`
	Month           int    `json:"month" binding:"required,min=1,max=12"`
	Year            int    `json:"year" binding:"required,min=2000"`
	Overtime        string `json:"overtime"`
	Bonuses         string `json:"bonuses"`
	OtherEarnings   string `json:"other_earnings"`
	Advances        string `json:"advances"`
	OtherDeductions string `json:"other_deductions"`
}

type LoanDeductionResponse struct {
	LoanID        string `json:"loan_id"`
	InstallmentID string `json:"installment_id"`
	Number        int    `json:"installment_number"`
	Amount        string `json:"amount"`
}

type PayrollResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`

	BasicSalary     string `json:"basic_salary"`
	TotalAllowances string `json:"total_allowances"`
	Overtime        string `json:"overtime"`
	Bonuses         string `json:"bonuses"`
	OtherEarnings   string `json:"other_earnings"`
	TotalEarnings   string `json:"total_earnings"`

	EmployeeEPF     string                  `json:"employee_epf"`
	LoanRepayment   string                  `json:"loan_repayment"`
	LoanDeductions  []LoanDeductionResponse `json:"loan_deductions,omitempty"`
	Advances        string                  `json:"advances"`
	OtherDeductions string                  `json:"other_deductions"`
	TotalDeductions string                  `json:"total_deductions"`

	EmployerEPF        string `json:"employer_epf"`
	ETF                string `json:"etf"`
	TotalContributions string `json:"total_contributions"`

	NetSalary         string `json:"net_salary"`
	PaymentStatus     string `json:"payment_status"`
	BankTransactionID string `json:"bank_transaction_id,omitempty"`
	PaidAt            string `json:"paid_at,omitempty"`
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Month:      p.Month,
		Year:       p.Year,

		BasicSalary:     p.BasicSalary.StringFixed(2),
		TotalAllowances: p.TotalAllowances.StringFixed(2),
		Overtime:        p.Overtime.StringFixed(2),
		Bonuses:         p.Bonuses.StringFixed(2),
		OtherEarnings:   p.OtherEarnings.StringFixed(2),
		TotalEarnings:   p.TotalEarnings.StringFixed(2),

		EmployeeEPF:     p.EmployeeEPF.StringFixed(2),
		LoanRepayment:   p.LoanRepayment.StringFixed(2),
		Advances:        p.Advances.StringFixed(2),
		OtherDeductions: p.OtherDeductions.StringFixed(2),
		TotalDeductions: p.TotalDeductions.StringFixed(2),

		EmployerEPF:        p.EmployerEPF.StringFixed(2),
		ETF:                p.ETF.StringFixed(2),
		TotalContributions: p.TotalContributions.StringFixed(2),

		NetSalary:     p.NetSalary.StringFixed(2),
		PaymentStatus: p.PaymentStatus,
	}

	if p.BankTransactionID != nil {
		resp.BankTransactionID = p.BankTransactionID.String()
	}
	if p.PaidAt != nil {
		resp.PaidAt = p.PaidAt.Format("2006-01-02 15:04:05")
	}

	for _, ld := range p.LoanDeductions {
		resp.LoanDeductions = append(resp.LoanDeductions, LoanDeductionResponse{
			LoanID:        ld.LoanID.String(),
			InstallmentID: ld.InstallmentID.String(),
			Number:        ld.Number,
			Amount:        ld.Amount.StringFixed(2),
		})
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	res := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		res[i] = mapToResponse(p)
	}
	return res
}
