package invoice

type ItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
}

type CreateInvoiceRequest struct {
	CustomerID    string        `json:"customer_id" binding:"required,uuid"`
	Items         []ItemRequest `json:"items" binding:"required,dive"`
	TaxRate       string        `json:"tax_rate"`
	DiscountType  string        `json:"discount_type" binding:"omitempty,oneof=None Percentage Fixed"`
	DiscountValue string        `json:"discount_value"`
	IssueDate     string        `json:"issue_date"`
	Notes         string        `json:"notes"`
}

type AddPaymentRequest struct {
	Amount        string `json:"amount" binding:"required"`
	Method        string `json:"method" binding:"required,oneof=cash card bank_transfer cheque"`
	Reference     string `json:"reference"`
	BankAccountID string `json:"bank_account_id" binding:"omitempty,uuid"`
}

type CancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

type GenerateFromSalesRequest struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	FromDate   string `json:"from_date" binding:"required"`
	ToDate     string `json:"to_date" binding:"required"`
	TaxRate    string `json:"tax_rate"`
	Notes      string `json:"notes"`
}

type ItemResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
}

type PaymentResponse struct {
	ID                string `json:"id"`
	Amount            string `json:"amount"`
	Method            string `json:"method"`
	Reference         string `json:"reference,omitempty"`
	BankTransactionID string `json:"bank_transaction_id,omitempty"`
	Date              string `json:"date"`
}

type InvoiceResponse struct {
	ID             string            `json:"id"`
	InvoiceNumber  string            `json:"invoice_number"`
	CustomerID     string            `json:"customer_id"`
	Items          []ItemResponse    `json:"items"`
	Payments       []PaymentResponse `json:"payments"`
	TaxRate        string            `json:"tax_rate"`
	TaxAmount      string            `json:"tax_amount"`
	DiscountType   string            `json:"discount_type"`
	DiscountValue  string            `json:"discount_value"`
	DiscountAmount string            `json:"discount_amount"`
	Subtotal       string            `json:"subtotal"`
	TotalAmount    string            `json:"total_amount"`
	AmountPaid     string            `json:"amount_paid"`
	AmountDue      string            `json:"amount_due"`
	PaymentStatus  string            `json:"payment_status"`
	IssueDate      string            `json:"issue_date"`
	DueDate        string            `json:"due_date"`
	Notes          string            `json:"notes,omitempty"`
}

func mapToResponse(inv Invoice) InvoiceResponse {
	items := make([]ItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = ItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Amount:      it.Amount.StringFixed(2),
		}
	}

	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		resp := PaymentResponse{
			ID:        p.ID.String(),
			Amount:    p.Amount.StringFixed(2),
			Method:    p.Method,
			Reference: p.Reference,
			Date:      p.Date.Format("2006-01-02"),
		}
		if p.BankTransactionID != nil {
			resp.BankTransactionID = p.BankTransactionID.String()
		}
		payments[i] = resp
	}

	return InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID.String(),
		Items:          items,
		Payments:       payments,
		TaxRate:        inv.TaxRate.StringFixed(2),
		TaxAmount:      inv.TaxAmount.StringFixed(2),
		DiscountType:   inv.DiscountType,
		DiscountValue:  inv.DiscountValue.StringFixed(2),
		DiscountAmount: inv.DiscountAmount.StringFixed(2),
		Subtotal:       inv.Subtotal.StringFixed(2),
		TotalAmount:    inv.TotalAmount.StringFixed(2),
		AmountPaid:     inv.AmountPaid.StringFixed(2),
		AmountDue:      inv.AmountDue.StringFixed(2),
		PaymentStatus:  inv.PaymentStatus,
		IssueDate:      inv.IssueDate.Format("2006-01-02"),
		DueDate:        inv.DueDate.Format("2006-01-02"),
		Notes:          inv.Notes,
	}
}

func mapToListResponse(invoices []Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = mapToResponse(inv)
	}
	return res
}
