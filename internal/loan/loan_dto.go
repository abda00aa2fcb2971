package loan

type CreateLoanRequest struct {
	EmployeeID     string `json:"employee_id" binding:"required,uuid"`
	Principal      string `json:"principal" binding:"required"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1"`
	StartDate      string `json:"start_date" binding:"required"`
	Purpose        string `json:"purpose"`
}

type PreviewScheduleRequest struct {
	Principal      string `json:"principal" binding:"required"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1"`
	StartDate      string `json:"start_date" binding:"required"`
}

type InstallmentResponse struct {
	ID               string `json:"id,omitempty"`
	Number           int    `json:"number"`
	DueDate          string `json:"due_date"`
	Amount           string `json:"amount"`
	RemainingBalance string `json:"remaining_balance"`
	Status           string `json:"status,omitempty"`
	PaidByPayrollID  string `json:"paid_by_payroll_id,omitempty"`
}

type LoanResponse struct {
	ID                 string                `json:"id"`
	EmployeeID         string                `json:"employee_id"`
	Principal          string                `json:"principal"`
	AnnualRate         string                `json:"annual_rate"`
	DurationMonths     int                   `json:"duration_months"`
	Interest           string                `json:"interest"`
	TotalRepayable     string                `json:"total_repayable"`
	MonthlyInstallment string                `json:"monthly_installment"`
	RemainingAmount    string                `json:"remaining_amount"`
	Status             string                `json:"status"`
	StartDate          string                `json:"start_date"`
	Purpose            string                `json:"purpose,omitempty"`
	Installments       []InstallmentResponse `json:"installments,omitempty"`
}

type ScheduleResponse struct {
	Interest           string                `json:"interest"`
	TotalRepayable     string                `json:"total_repayable"`
	MonthlyInstallment string                `json:"monthly_installment"`
	Installments       []InstallmentResponse `json:"installments"`
}

func mapToResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:                 l.ID.String(),
		EmployeeID:         l.EmployeeID.String(),
		Principal:          l.Principal.StringFixed(2),
		AnnualRate:         l.AnnualRate.String(),
		DurationMonths:     l.DurationMonths,
		Interest:           l.Interest.StringFixed(2),
		TotalRepayable:     l.TotalRepayable.StringFixed(2),
		MonthlyInstallment: l.MonthlyInstallment.StringFixed(2),
		RemainingAmount:    l.RemainingAmount.StringFixed(2),
		Status:             l.Status,
		StartDate:          l.StartDate.Format("2006-01-02"),
		Purpose:            l.Purpose,
	}

	for _, inst := range l.Installments {
		ir := InstallmentResponse{
			ID:               inst.ID.String(),
			Number:           inst.Number,
			DueDate:          inst.DueDate.Format("2006-01-02"),
			Amount:           inst.Amount.StringFixed(2),
			RemainingBalance: inst.RemainingBalance.StringFixed(2),
			Status:           inst.Status,
		}
		if inst.PaidByPayrollID != nil {
			ir.PaidByPayrollID = inst.PaidByPayrollID.String()
		}
		resp.Installments = append(resp.Installments, ir)
	}

	return resp
}

func mapToListResponse(loans []Loan) []LoanResponse {
	res := make([]LoanResponse, len(loans))
	for i, l := range loans {
		res[i] = mapToResponse(l)
	}
	return res
}

func mapToScheduleResponse(s Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		Interest:           s.Interest.StringFixed(2),
		TotalRepayable:     s.TotalRepayable.StringFixed(2),
		MonthlyInstallment: s.MonthlyInstallment.StringFixed(2),
	}
	for _, si := range s.Installments {
		resp.Installments = append(resp.Installments, InstallmentResponse{
			Number:           si.Number,
			DueDate:          si.DueDate.Format("2006-01-02"),
			Amount:           si.Amount.StringFixed(2),
			RemainingBalance: si.RemainingBalance.StringFixed(2),
		})
	}
	return resp
}
