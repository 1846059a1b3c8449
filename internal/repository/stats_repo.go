package repository

import (
	"context"

	"gravoplus/internal/model"

	"gorm.io/gorm"
)

// StatsRepository serves the dashboard counters.
type StatsRepository interface {
	CountClients(ctx context.Context) (int64, error)
	CountDevis(ctx context.Context) (int64, error)
	CountDevisByStatus(ctx context.Context, status model.DevisStatus) (int64, error)
	CountInvoices(ctx context.Context) (int64, error)
}

type statsRepo struct{ db *gorm.DB }

func NewStatsRepository(db *gorm.DB) StatsRepository { return &statsRepo{db: db} }

func (r *statsRepo) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&n).Error
	return n, err
}

func (r *statsRepo) CountDevis(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Devis{}).Count(&n).Error
	return n, err
}

func (r *statsRepo) CountDevisByStatus(ctx context.Context, status model.DevisStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Devis{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *statsRepo) CountInvoices(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).Count(&n).Error
	return n, err
}
