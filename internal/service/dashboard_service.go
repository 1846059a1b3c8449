package service

import (
	"context"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"
)

type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

type dashboardService struct {
	stats    repository.StatsRepository
	payments repository.PaymentRepository
	expenses repository.ExpenseRepository
}

func NewDashboardService(
	stats repository.StatsRepository,
	payments repository.PaymentRepository,
	expenses repository.ExpenseRepository,
) DashboardService {
	return &dashboardService{stats: stats, payments: payments, expenses: expenses}
}

// Stats aggregates the dashboard counters and the running month's totals.
func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	out := &dto.DashboardStats{}

	var err error
	if out.ClientCount, err = s.stats.CountClients(ctx); err != nil {
		return nil, err
	}
	if out.DevisCount, err = s.stats.CountDevis(ctx); err != nil {
		return nil, err
	}
	if out.DraftDevis, err = s.stats.CountDevisByStatus(ctx, model.StatusDraft); err != nil {
		return nil, err
	}
	if out.ValidatedDevis, err = s.stats.CountDevisByStatus(ctx, model.StatusValidated); err != nil {
		return nil, err
	}
	if out.InvoiceCount, err = s.stats.CountInvoices(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	revenue, err := s.payments.SumInRange(ctx, &monthStart, &now)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenses.SumInRange(ctx, &monthStart, &now)
	if err != nil {
		return nil, err
	}
	out.MonthRevenue = revenue.StringFixed(2)
	out.MonthExpense = expense.StringFixed(2)
	return out, nil
}
