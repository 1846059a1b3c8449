package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee is a back-office user account.
// Role: "admin" | "manager" | "employee"
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	Phone        *string          `gorm:"type:varchar(30)"`
	PasswordHash string           `gorm:"not null"`
	Role         string           `gorm:"type:varchar(20);not null;default:'employee'"`
	Salary       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	HiredAt      *time.Time
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
