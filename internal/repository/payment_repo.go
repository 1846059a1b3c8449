package repository

import (
	"context"
	"time"

	"gravoplus/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error)
	ListByDevis(ctx context.Context, devisID uuid.UUID) ([]model.Payment, error)
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	SumByDevis(ctx context.Context, devisID uuid.UUID) (decimal.Decimal, error)
	ListInRange(ctx context.Context, from, to *time.Time) ([]model.Payment, error)
	SumInRange(ctx context.Context, from, to *time.Time) (decimal.Decimal, error)
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) Create(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("paid_at ASC").Find(&out).Error
	return out, err
}

func (r *paymentRepo) ListByDevis(ctx context.Context, devisID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	err := r.db.WithContext(ctx).Where("devis_id = ?", devisID).Order("paid_at ASC").Find(&out).Error
	return out, err
}

func (r *paymentRepo) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "invoice_id = ?", invoiceID)
}

func (r *paymentRepo) SumByDevis(ctx context.Context, devisID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, "devis_id = ?", devisID)
}

func (r *paymentRepo) sum(ctx context.Context, cond string, arg interface{}) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where(cond, arg).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *paymentRepo) ListInRange(ctx context.Context, from, to *time.Time) ([]model.Payment, error) {
	var out []model.Payment
	q := r.db.WithContext(ctx).Order("paid_at ASC")
	if from != nil {
		q = q.Where("paid_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("paid_at <= ?", *to)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *paymentRepo) SumInRange(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	q := r.db.WithContext(ctx).Model(&model.Payment{}).Select("COALESCE(SUM(amount), 0)")
	if from != nil {
		q = q.Where("paid_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("paid_at <= ?", *to)
	}
	err := q.Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
