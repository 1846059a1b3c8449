package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpsertExpenseCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type CreateExpenseRequest struct {
	CategoryID string          `json:"category_id" validate:"required,uuid"`
	Label      string          `json:"label"       validate:"required"`
	Amount     decimal.Decimal `json:"amount"      validate:"required"`
	SpentAt    string          `json:"spent_at"    validate:"required,datetime=2006-01-02"`
	Notes      *string         `json:"notes"`
}

type UpdateExpenseRequest struct {
	CategoryID string           `json:"category_id" validate:"omitempty,uuid"`
	Label      string           `json:"label"`
	Amount     *decimal.Decimal `json:"amount"`
	SpentAt    string           `json:"spent_at"    validate:"omitempty,datetime=2006-01-02"`
	Notes      *string          `json:"notes"`
}

// ExpenseFilter is bound from the query string of GET /v1/expenses.
type ExpenseFilter struct {
	CategoryID string `form:"category_id"`
	From       string `form:"from"` // YYYY-MM-DD
	To         string `form:"to"`   // YYYY-MM-DD
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ExpenseCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ExpenseResponse struct {
	ID           string          `json:"id"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Label        string          `json:"label"`
	Amount       decimal.Decimal `json:"amount"`
	SpentAt      string          `json:"spent_at"`
	Notes        *string         `json:"notes,omitempty"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
