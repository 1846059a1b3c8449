package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an immutable ledger entry. It attaches to an invoice, or — in
// the caisse flow — directly to a devis (deposit before invoicing). Exactly
// one of InvoiceID/DevisID is set.
// Method: "cash" | "card" | "transfer" | "check"
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	DevisID   *uuid.UUID      `gorm:"type:uuid;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method    string          `gorm:"type:varchar(20);not null"`
	Reference *string
	Notes     *string
	PaidAt    time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
