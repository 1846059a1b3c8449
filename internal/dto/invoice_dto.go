package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateInvoiceRequest is the batch "create invoice from devis" payload.
// Every devis must be VALIDATED, not yet invoiced, and belong to the same
// client — the service rejects mixed-client batches before any write.
type CreateInvoiceRequest struct {
	DevisIDs []string `json:"devis_ids" validate:"required,min=1,dive,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// InvoiceSummary is the compact form embedded in DevisResponse.
type InvoiceSummary struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   string          `json:"created_at"`
}

type InvoiceResponse struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ClientID    string          `json:"client_id"`
	Client      *ClientResponse `json:"client,omitempty"`
	Devis       []DevisResponse `json:"devis"`
	Stats       *PaymentStats   `json:"stats,omitempty"`
	PDFReady    bool            `json:"pdf_ready"`
	CreatedAt   string          `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
