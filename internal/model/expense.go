package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory groups ledger expenses (rent, supplies, maintenance…).
type ExpenseCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// Expense is a categorized ledger entry, independent of the devis/invoice
// graph except for inclusion in aggregate financial stats.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Label       string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SpentAt     time.Time       `gorm:"not null;index"`
	Notes       *string
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *ExpenseCategory `gorm:"foreignKey:CategoryID"`
}
