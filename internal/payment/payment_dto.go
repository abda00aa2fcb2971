package payment

type PaySingleRequest struct {
	BankAccountID string `json:"bank_account_id" binding:"required,uuid"`
	PayrollID     string `json:"payroll_id" binding:"required,uuid"`
}

type PayBatchRequest struct {
	BankAccountID string   `json:"bank_account_id" binding:"required,uuid"`
	PayrollIDs    []string `json:"payroll_ids" binding:"required,min=1,dive,uuid"`
}

type PaymentResultItem struct {
	PayrollID         string `json:"payroll_id"`
	EmployeeID        string `json:"employee_id,omitempty"`
	NetSalary         string `json:"net_salary,omitempty"`
	BankTransactionID string `json:"bank_transaction_id,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

type BatchPaymentResponse struct {
	Success    []PaymentResultItem `json:"success"`
	Failed     []PaymentResultItem `json:"failed"`
	TotalPaid  string              `json:"total_paid"`
	BalanceRem string              `json:"remaining_balance"`
}

type SinglePaymentResponse struct {
	PayrollID         string `json:"payroll_id"`
	EmployeeID        string `json:"employee_id"`
	NetSalary         string `json:"net_salary"`
	BankTransactionID string `json:"bank_transaction_id"`
	RemainingBalance  string `json:"remaining_balance"`
}

type CancelPaymentResponse struct {
	PayrollID        string `json:"payroll_id"`
	RefundedAmount   string `json:"refunded_amount"`
	RemainingBalance string `json:"remaining_balance"`
	Status           string `json:"status"`
}
