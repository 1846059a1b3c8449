package dto

import "github.com/shopspring/decimal"

// ─── Machines ────────────────────────────────────────────────────────────────

type UpsertMachineRequest struct {
	Type       string          `json:"type"        validate:"required"`
	Name       string          `json:"name"        validate:"required"`
	MinuteRate decimal.Decimal `json:"minute_rate" validate:"min=0"`
	MeterRate  decimal.Decimal `json:"meter_rate"  validate:"min=0"`
	UnitRate   decimal.Decimal `json:"unit_rate"   validate:"min=0"`
}

type MachineResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	TypeLabel  string          `json:"type_label"`
	Name       string          `json:"name"`
	MinuteRate decimal.Decimal `json:"minute_rate"`
	MeterRate  decimal.Decimal `json:"meter_rate"`
	UnitRate   decimal.Decimal `json:"unit_rate"`
	Active     bool            `json:"active"`
}

// ─── Materials ───────────────────────────────────────────────────────────────

type UpsertMaterialRequest struct {
	Name             string          `json:"name"               validate:"required"`
	SquareMeterPrice decimal.Decimal `json:"square_meter_price" validate:"min=0"`
	MeterPrice       decimal.Decimal `json:"meter_price"        validate:"min=0"`
	UnitPrice        decimal.Decimal `json:"unit_price"         validate:"min=0"`
}

type MaterialResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	SquareMeterPrice decimal.Decimal `json:"square_meter_price"`
	MeterPrice       decimal.Decimal `json:"meter_price"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Active           bool            `json:"active"`
}

// ─── Fixed services ──────────────────────────────────────────────────────────

type UpsertFixedServiceRequest struct {
	Name        string          `json:"name"  validate:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

type FixedServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
}
