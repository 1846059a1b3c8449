package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is generated from one or more VALIDATED devis of a single client.
// TotalAmount is the sum of the source devis totals, frozen at creation.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reference   string          `gorm:"uniqueIndex;not null"` // FAC-YYYY-NNNN
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClientID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CreatedByID uuid.UUID       `gorm:"type:uuid;not null"`
	// PDFPath is relative to PDF_STORAGE_PATH; nil until the worker renders it
	PDFPath   *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Client    *Client   `gorm:"foreignKey:ClientID"`
	CreatedBy *Employee `gorm:"foreignKey:CreatedByID"`
	Devis     []Devis   `gorm:"foreignKey:InvoiceID"`
	Payments  []Payment `gorm:"foreignKey:InvoiceID"`
}
