package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Devis is a quote, the primary workflow document prior to invoicing.
// Lines and services are mutable only while Status is DRAFT — the service
// layer rejects any mutation afterwards, the UI gating is not trusted.
type Devis struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reference   string          `gorm:"uniqueIndex;not null"` // DEV-YYYY-NNNN, server-assigned
	Status      DevisStatus     `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ClientID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CreatedByID uuid.UUID       `gorm:"type:uuid;not null"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Client    *Client            `gorm:"foreignKey:ClientID"`
	CreatedBy *Employee          `gorm:"foreignKey:CreatedByID"`
	Invoice   *Invoice           `gorm:"foreignKey:InvoiceID"`
	Lines     []DevisLine        `gorm:"foreignKey:DevisID"`
	Services  []DevisServiceItem `gorm:"foreignKey:DevisID"`
}

// DevisLine is one priced line of a devis. The set of populated optional
// fields is determined by MachineType, a closed per-type schema rather than
// a free-form bag.
type DevisLine struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DevisID     uuid.UUID   `gorm:"type:uuid;index;not null"`
	MachineType MachineType `gorm:"type:varchar(30);not null"`
	Description *string

	Minutes       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Meters        *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Quantity      *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Width         *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Height        *decimal.Decimal `gorm:"type:decimal(10,2)"`
	DimensionUnit *DimensionUnit   `gorm:"type:varchar(5)"`
	UnitPrice     *decimal.Decimal `gorm:"type:decimal(10,2)"`

	MaterialID *uuid.UUID `gorm:"type:uuid"`
	ServiceID  *uuid.UUID `gorm:"type:uuid"`

	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time

	Material *Material     `gorm:"foreignKey:MaterialID"`
	Service  *FixedService `gorm:"foreignKey:ServiceID"`
}

// DevisServiceItem associates a FixedService with a Devis, capturing the
// service price at attach time so later catalog edits do not reprice quotes.
type DevisServiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DevisID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ServiceID uuid.UUID       `gorm:"type:uuid;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Service *FixedService `gorm:"foreignKey:ServiceID"`
}
