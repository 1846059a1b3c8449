package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is persisted before being pushed over the websocket as a
// "notification:new" event. Delivery to connected sockets is at-most-once;
// the list endpoint is the catch-up path.
// Type: "devis_validated" | "devis_cancelled" | "invoice_created" |
// "payment_registered" | "closure_created"
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type        string     `gorm:"type:varchar(30);not null"`
	Title       string     `gorm:"not null"`
	Message     string     `gorm:"not null"`
	IsRead      bool       `gorm:"not null;default:false;index"`
	TriggeredBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"index"`
}
