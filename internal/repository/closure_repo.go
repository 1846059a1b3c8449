package repository

import (
	"context"

	"gravoplus/internal/model"

	"gorm.io/gorm"
)

// ClosureRepository is intentionally append-only: closures are an audit
// trail, there is no Update or Delete.
type ClosureRepository interface {
	Create(ctx context.Context, c *model.FinancialClosure) error
	List(ctx context.Context) ([]model.FinancialClosure, error)
}

type closureRepo struct{ db *gorm.DB }

func NewClosureRepository(db *gorm.DB) ClosureRepository { return &closureRepo{db: db} }

func (r *closureRepo) Create(ctx context.Context, c *model.FinancialClosure) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *closureRepo) List(ctx context.Context) ([]model.FinancialClosure, error) {
	var out []model.FinancialClosure
	err := r.db.WithContext(ctx).Preload("ClosedBy").Order("period_end DESC").Find(&out).Error
	return out, err
}
