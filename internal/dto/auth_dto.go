package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateEmployeeRequest struct {
	Username string           `json:"username" validate:"required,min=3"`
	Name     string           `json:"name"     validate:"required"`
	Email    *string          `json:"email"    validate:"omitempty,email"`
	Phone    *string          `json:"phone"`
	Password string           `json:"password" validate:"required,min=8"`
	Role     string           `json:"role"     validate:"required,oneof=admin manager employee"`
	Salary   *decimal.Decimal `json:"salary"   validate:"omitempty"`
	HiredAt  *string          `json:"hired_at" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateEmployeeRequest struct {
	Name     string           `json:"name"`
	Email    *string          `json:"email"    validate:"omitempty,email"`
	Phone    *string          `json:"phone"`
	Password string           `json:"password" validate:"omitempty,min=8"`
	Role     string           `json:"role"     validate:"omitempty,oneof=admin manager employee"`
	Salary   *decimal.Decimal `json:"salary"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmployeeResponse struct {
	ID      string           `json:"id"`
	Username string          `json:"username"`
	Name    string           `json:"name"`
	Email   *string          `json:"email,omitempty"`
	Phone   *string          `json:"phone,omitempty"`
	Role    string           `json:"role"`
	Salary  *decimal.Decimal `json:"salary,omitempty"`
	HiredAt *string          `json:"hired_at,omitempty"`
	Active  bool             `json:"active"`
}

type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int              `json:"expires_in"`
	User         EmployeeResponse `json:"user"`
}
