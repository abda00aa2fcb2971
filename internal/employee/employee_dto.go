package employee

type AllowanceRequest struct {
	Name   string `json:"name" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type CreateEmployeeRequest struct {
	EmployeeNumber    string             `json:"employee_number" binding:"required"`
	FullName          string             `json:"full_name" binding:"required"`
	NIC               string             `json:"nic"`
	Position          string             `json:"position"`
	Phone             string             `json:"phone"`
	BasicSalary       string             `json:"basic_salary" binding:"required"`
	BankName          string             `json:"bank_name"`
	BankAccountNumber string             `json:"bank_account_number"`
	Allowances        []AllowanceRequest `json:"allowances"`
}

type UpdateEmployeeRequest struct {
	FullName          string             `json:"full_name" binding:"required"`
	NIC               string             `json:"nic"`
	Position          string             `json:"position"`
	Phone             string             `json:"phone"`
	BasicSalary       string             `json:"basic_salary" binding:"required"`
	BankName          string             `json:"bank_name"`
	BankAccountNumber string             `json:"bank_account_number"`
	IsActive          *bool              `json:"is_active"`
	Allowances        []AllowanceRequest `json:"allowances"`
}

type AllowanceResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type EmployeeResponse struct {
	ID                string              `json:"id"`
	EmployeeNumber    string              `json:"employee_number"`
	FullName          string              `json:"full_name"`
	NIC               string              `json:"nic,omitempty"`
	Position          string              `json:"position,omitempty"`
	Phone             string              `json:"phone,omitempty"`
	BasicSalary       string              `json:"basic_salary"`
	TotalAllowances   string              `json:"total_allowances"`
	BankName          string              `json:"bank_name,omitempty"`
	BankAccountNumber string              `json:"bank_account_number,omitempty"`
	IsActive          bool                `json:"is_active"`
	Allowances        []AllowanceResponse `json:"allowances,omitempty"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                e.ID.String(),
		EmployeeNumber:    e.EmployeeNumber,
		FullName:          e.FullName,
		NIC:               e.NIC,
		Position:          e.Position,
		Phone:             e.Phone,
		BasicSalary:       e.BasicSalary.StringFixed(2),
		TotalAllowances:   e.TotalAllowances().StringFixed(2),
		BankName:          e.BankName,
		BankAccountNumber: e.BankAccountNumber,
		IsActive:          e.IsActive,
	}
	for _, a := range e.Allowances {
		resp.Allowances = append(resp.Allowances, AllowanceResponse{
			ID:     a.ID.String(),
			Name:   a.Name,
			Amount: a.Amount.StringFixed(2),
		})
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}
