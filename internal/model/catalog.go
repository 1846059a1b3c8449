package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Machine carries the pricing rates for one machine type. Which rate a devis
// line uses depends on its MachineType formula: CNC/LASER bill MinuteRate,
// CHAMPS/PLIAGE bill MeterRate, PANNEAUX bills UnitRate.
type Machine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type       MachineType     `gorm:"type:varchar(30);uniqueIndex;not null"`
	Name       string          `gorm:"not null"`
	MinuteRate decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MeterRate  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UnitRate   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Active     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Material is a stocked raw material (plexiglass, aluminium, wood panel…).
// SquareMeterPrice prices surface-based lines (CNC, LASER, VENTE_MATERIAU);
// MeterPrice prices linear feed (PLIAGE material meters, maintenance parts).
type Material struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string          `gorm:"index;not null"`
	SquareMeterPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MeterPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Active           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FixedService is a catalog entry with a fixed price, attachable to a devis
// as a whole (service toggle) or referenced by a maintenance line.
type FixedService struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
