package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of the workshop. Deletion is rejected while the client
// is still referenced by devis or invoices.
type Client struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"index;not null"`
	Phone   *string   `gorm:"type:varchar(30)"`
	Email   *string
	Address *string
	Notes   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
