package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// DevisFilter is bound from the query string of GET /v1/devis.
type DevisFilter struct {
	Status   string `form:"status"`    // DRAFT | VALIDATED | INVOICED | CANCELLED; empty = all
	ClientID string `form:"client_id"` // uuid; empty = all
	From     string `form:"from"`      // YYYY-MM-DD
	To       string `form:"to"`        // YYYY-MM-DD
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateDevisRequest struct {
	ClientID string  `json:"client_id" validate:"required,uuid"`
	Notes    *string `json:"notes"`
}

// CustomField is one ordered ad-hoc (name, value) pair on a CUSTOM line. On
// submit, non-empty values are flattened into the line description — the
// structured pairs are not stored.
type CustomField struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// AddDevisLineRequest is the line-composer payload. Which fields apply is
// determined by MachineType (each type has a closed field schema); fields
// outside the schema of the chosen type are ignored.
type AddDevisLineRequest struct {
	MachineType string `json:"machine_type" validate:"required"`
	Description string `json:"description"`

	Minutes       *decimal.Decimal `json:"minutes"        validate:"omitempty,gt=0"`
	Meters        *decimal.Decimal `json:"meters"         validate:"omitempty,gt=0"`
	Quantity      *decimal.Decimal `json:"quantity"       validate:"omitempty,gt=0"`
	Width         *decimal.Decimal `json:"width"          validate:"omitempty,gt=0"`
	Height        *decimal.Decimal `json:"height"         validate:"omitempty,gt=0"`
	DimensionUnit string           `json:"dimension_unit" validate:"omitempty,oneof=m cm"`
	UnitPrice     *decimal.Decimal `json:"unit_price"     validate:"omitempty,gt=0"`

	MaterialID *string `json:"material_id" validate:"omitempty,uuid"`
	ServiceID  *string `json:"service_id"  validate:"omitempty,uuid"`

	// MaintenanceMode applies to SERVICE_MAINTENANCE only: manual | material | service
	MaintenanceMode string `json:"maintenance_mode" validate:"omitempty,oneof=manual material service"`

	// CustomFields apply to CUSTOM only; order is preserved in the flattening.
	CustomFields []CustomField `json:"custom_fields" validate:"omitempty,dive"`
}

type ToggleDevisServiceRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DevisLineResponse struct {
	ID            string           `json:"id"`
	MachineType   string           `json:"machine_type"`
	MachineLabel  string           `json:"machine_label"`
	Description   *string          `json:"description,omitempty"`
	Minutes       *decimal.Decimal `json:"minutes,omitempty"`
	Meters        *decimal.Decimal `json:"meters,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Width         *decimal.Decimal `json:"width,omitempty"`
	Height        *decimal.Decimal `json:"height,omitempty"`
	DimensionUnit *string          `json:"dimension_unit,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	MaterialID    *string          `json:"material_id,omitempty"`
	MaterialName  *string          `json:"material_name,omitempty"`
	ServiceID     *string          `json:"service_id,omitempty"`
	LineTotal     decimal.Decimal  `json:"line_total"`
}

type DevisServiceItemResponse struct {
	ID        string          `json:"id"`
	ServiceID string          `json:"service_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

type DevisResponse struct {
	ID          string                     `json:"id"`
	Reference   string                     `json:"reference"`
	Status      string                     `json:"status"`
	StatusLabel string                     `json:"status_label"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	ClientID    string                     `json:"client_id"`
	Client      *ClientResponse            `json:"client,omitempty"`
	CreatedBy   string                     `json:"created_by"`
	Notes       *string                    `json:"notes,omitempty"`
	Lines       []DevisLineResponse        `json:"lines"`
	Services    []DevisServiceItemResponse `json:"services"`
	Invoice     *InvoiceSummary            `json:"invoice,omitempty"`
	CreatedAt   string                     `json:"created_at"`
}

type DevisListResponse struct {
	Data  []DevisResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
