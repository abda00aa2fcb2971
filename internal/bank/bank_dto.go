package bank

type CreateAccountRequest struct {
	AccountName    string `json:"account_name" binding:"required"`
	AccountNumber  string `json:"account_number" binding:"required"`
	BankName       string `json:"bank_name"`
	Branch         string `json:"branch"`
	OpeningBalance string `json:"opening_balance"`
}

type TransactionRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
}

type AccountResponse struct {
	ID             string `json:"id"`
	AccountName    string `json:"account_name"`
	AccountNumber  string `json:"account_number"`
	BankName       string `json:"bank_name,omitempty"`
	Branch         string `json:"branch,omitempty"`
	OpeningBalance string `json:"opening_balance"`
	CurrentBalance string `json:"current_balance"`
}

type TransactionResponse struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balance_after"`
	Reference    string `json:"reference,omitempty"`
	Description  string `json:"description,omitempty"`
	Date         string `json:"date"`
}

func mapToResponse(a BankAccount) AccountResponse {
	return AccountResponse{
		ID:             a.ID.String(),
		AccountName:    a.AccountName,
		AccountNumber:  a.AccountNumber,
		BankName:       a.BankName,
		Branch:         a.Branch,
		OpeningBalance: a.OpeningBalance.StringFixed(2),
		CurrentBalance: a.CurrentBalance.StringFixed(2),
	}
}

func mapToListResponse(accounts []BankAccount) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		res[i] = mapToResponse(a)
	}
	return res
}

func mapToTransactionResponse(t BankTransaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID.String(),
		AccountID:    t.AccountID.String(),
		Type:         t.Type,
		Amount:       t.Amount.StringFixed(2),
		BalanceAfter: t.BalanceAfter.StringFixed(2),
		Reference:    t.Reference,
		Description:  t.Description,
		Date:         t.Date.Format("2006-01-02"),
	}
}

func mapToTransactionListResponse(txns []BankTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = mapToTransactionResponse(t)
	}
	return res
}
