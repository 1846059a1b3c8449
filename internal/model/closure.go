package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialClosure is an append-only period-close snapshot of the caisse.
// Created by an explicit admin action; never updated or deleted — there are
// no mutation endpoints for it.
// Scope: "caisse" | "global"
type FinancialClosure struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodStart  time.Time       `gorm:"not null"`
	PeriodEnd    time.Time       `gorm:"not null"`
	TotalIncome  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalExpense decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Balance      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Scope        string          `gorm:"type:varchar(20);not null;default:'caisse'"`
	ClosedByID   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt    time.Time

	ClosedBy *Employee `gorm:"foreignKey:ClosedByID"`
}
