package repository

import (
	"context"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	CreateCategory(ctx context.Context, c *model.ExpenseCategory) error
	ListCategories(ctx context.Context) ([]model.ExpenseCategory, error)
	UpdateCategory(ctx context.Context, c *model.ExpenseCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountInCategory(ctx context.Context, id uuid.UUID) (int64, error)

	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter dto.ExpenseFilter) ([]model.Expense, int64, error)
	Update(ctx context.Context, e *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListInRange(ctx context.Context, from, to *time.Time) ([]model.Expense, error)
	SumInRange(ctx context.Context, from, to *time.Time) (decimal.Decimal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

// ─── Categories ──────────────────────────────────────────────────────────────

func (r *expenseRepo) CreateCategory(ctx context.Context, c *model.ExpenseCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *expenseRepo) ListCategories(ctx context.Context) ([]model.ExpenseCategory, error) {
	var out []model.ExpenseCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *expenseRepo) UpdateCategory(ctx context.Context, c *model.ExpenseCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *expenseRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ExpenseCategory{}, id).Error
}

func (r *expenseRepo) CountInCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Expense{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}

// ─── Expenses ────────────────────────────────────────────────────────────────

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	err := r.db.WithContext(ctx).Preload("Category").First(&e, id).Error
	return &e, err
}

func (r *expenseRepo) List(ctx context.Context, filter dto.ExpenseFilter) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Expense{})
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.From != "" {
		q = q.Where("DATE(spent_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(spent_at) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Category").
		Order("spent_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&expenses).Error
	return expenses, total, err
}

func (r *expenseRepo) Update(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, id).Error
}

func (r *expenseRepo) ListInRange(ctx context.Context, from, to *time.Time) ([]model.Expense, error) {
	var out []model.Expense
	q := r.db.WithContext(ctx).Preload("Category").Order("spent_at ASC")
	if from != nil {
		q = q.Where("spent_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("spent_at <= ?", *to)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *expenseRepo) SumInRange(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Select("COALESCE(SUM(amount), 0)")
	if from != nil {
		q = q.Where("spent_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("spent_at <= ?", *to)
	}
	err := q.Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
