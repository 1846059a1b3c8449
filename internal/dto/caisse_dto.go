package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegisterPaymentRequest attaches a payment to an invoice or — caisse flow —
// directly to a devis. Exactly one of invoice_id/devis_id must be set.
type RegisterPaymentRequest struct {
	InvoiceID *string         `json:"invoice_id" validate:"omitempty,uuid"`
	DevisID   *string         `json:"devis_id"   validate:"omitempty,uuid"`
	Amount    decimal.Decimal `json:"amount"     validate:"required"`
	Method    string          `json:"method"     validate:"required,oneof=cash card transfer check"`
	Reference *string         `json:"reference"`
	Notes     *string         `json:"notes"`
	PaidAt    *string         `json:"paid_at"    validate:"omitempty,datetime=2006-01-02"`
}

// LedgerFilter is bound from the query string of GET /v1/caisse/ledger.
// An empty range means "no filter"; from > to is rejected.
type LedgerFilter struct {
	From string `form:"from"` // YYYY-MM-DD
	To   string `form:"to"`   // YYYY-MM-DD
}

type CreateClosureRequest struct {
	PeriodStart string `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end"   validate:"required,datetime=2006-01-02"`
	Scope       string `json:"scope"        validate:"omitempty,oneof=caisse global"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PaymentStats aggregates the payments of one invoice or devis. All fields
// are server-computed; the front-end only displays them.
type PaymentStats struct {
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentPaid decimal.Decimal `json:"percent_paid"`
	IsPaid      bool            `json:"is_paid"`
}

type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID *string         `json:"invoice_id,omitempty"`
	DevisID   *string         `json:"devis_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference *string         `json:"reference,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	PaidAt    string          `json:"paid_at"`
}

// LedgerEntry is one row of the caisse view: a payment (income) or an
// expense, merged chronologically.
type LedgerEntry struct {
	Kind   string          `json:"kind"` // income | expense
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Method *string         `json:"method,omitempty"`
	Date   string          `json:"date"`
}

type LedgerResponse struct {
	Entries      []LedgerEntry   `json:"entries"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type ClosureResponse struct {
	ID           string          `json:"id"`
	PeriodStart  string          `json:"period_start"`
	PeriodEnd    string          `json:"period_end"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Scope        string          `json:"scope"`
	ClosedBy     string          `json:"closed_by"`
	ClosedByName *string         `json:"closed_by_name,omitempty"`
	CreatedAt    string          `json:"created_at"`
}
