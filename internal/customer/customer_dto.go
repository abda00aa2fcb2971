package customer

type CreditAccountRequest struct {
	IsEnabled       bool   `json:"is_enabled"`
	CreditLimit     string `json:"credit_limit"`
	PaymentTermDays int    `json:"payment_term_days"`
	Status          string `json:"status" binding:"omitempty,oneof=Active Suspended Closed"`
}

type CreateCustomerRequest struct {
	Name          string                `json:"name" binding:"required"`
	ContactName   string                `json:"contact_name"`
	Phone         string                `json:"phone"`
	Email         string                `json:"email" binding:"omitempty,email"`
	Address       string                `json:"address"`
	VehicleCount  int                   `json:"vehicle_count"`
	CreditAccount *CreditAccountRequest `json:"credit_account"`
}

type UpdateCustomerRequest struct {
	Name          string                `json:"name" binding:"required"`
	ContactName   string                `json:"contact_name"`
	Phone         string                `json:"phone"`
	Email         string                `json:"email" binding:"omitempty,email"`
	Address       string                `json:"address"`
	VehicleCount  int                   `json:"vehicle_count"`
	CreditAccount *CreditAccountRequest `json:"credit_account"`
}

type AdjustCreditRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type CreditAccountResponse struct {
	IsEnabled       bool   `json:"is_enabled"`
	CreditLimit     string `json:"credit_limit"`
	CurrentBalance  string `json:"current_balance"`
	AvailableCredit string `json:"available_credit"`
	Status          string `json:"status"`
	PaymentTermDays int    `json:"payment_term_days"`
}

type CustomerResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	ContactName   string                `json:"contact_name,omitempty"`
	Phone         string                `json:"phone,omitempty"`
	Email         string                `json:"email,omitempty"`
	Address       string                `json:"address,omitempty"`
	VehicleCount  int                   `json:"vehicle_count"`
	CreditAccount CreditAccountResponse `json:"credit_account"`
}

func mapToResponse(c Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		ContactName:  c.ContactName,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		VehicleCount: c.VehicleCount,
		CreditAccount: CreditAccountResponse{
			IsEnabled:       c.CreditAccount.IsEnabled,
			CreditLimit:     c.CreditAccount.CreditLimit.StringFixed(2),
			CurrentBalance:  c.CreditAccount.CurrentBalance.StringFixed(2),
			AvailableCredit: c.CreditAccount.AvailableCredit.StringFixed(2),
			Status:          c.CreditAccount.Status,
			PaymentTermDays: c.CreditAccount.PaymentTermDays,
		},
	}
}

func mapToListResponse(customers []Customer) []CustomerResponse {
	res := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		res[i] = mapToResponse(c)
	}
	return res
}
