package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CaisseService owns the payment ledger: incoming payments, the merged
// income/expense view and the append-only period closures.
type CaisseService interface {
	RegisterPayment(ctx context.Context, req dto.RegisterPaymentRequest) (*dto.PaymentResponse, error)
	InvoiceStats(ctx context.Context, invoiceID uuid.UUID) (*dto.PaymentStats, error)
	DevisStats(ctx context.Context, devisID uuid.UUID) (*dto.PaymentStats, error)
	Ledger(ctx context.Context, filter dto.LedgerFilter) (*dto.LedgerResponse, error)
	CreateClosure(ctx context.Context, employeeID uuid.UUID, req dto.CreateClosureRequest) (*dto.ClosureResponse, error)
	ListClosures(ctx context.Context) ([]dto.ClosureResponse, error)
}

type caisseService struct {
	payments      repository.PaymentRepository
	expenses      repository.ExpenseRepository
	closures      repository.ClosureRepository
	invoices      repository.InvoiceRepository
	devis         repository.DevisRepository
	notifications NotificationService
}

func NewCaisseService(
	payments repository.PaymentRepository,
	expenses repository.ExpenseRepository,
	closures repository.ClosureRepository,
	invoices repository.InvoiceRepository,
	devis repository.DevisRepository,
	notifications NotificationService,
) CaisseService {
	return &caisseService{
		payments:      payments,
		expenses:      expenses,
		closures:      closures,
		invoices:      invoices,
		devis:         devis,
		notifications: notifications,
	}
}

func (s *caisseService) RegisterPayment(ctx context.Context, req dto.RegisterPaymentRequest) (*dto.PaymentResponse, error) {
	if (req.InvoiceID == nil) == (req.DevisID == nil) {
		return nil, errors.New("le paiement doit référencer soit une facture, soit un devis")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("le montant doit être positif")
	}

	payment := &model.Payment{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
		PaidAt:    time.Now(),
	}
	if req.PaidAt != nil {
		paidAt, err := time.Parse("2006-01-02", *req.PaidAt)
		if err != nil {
			return nil, errors.New("date de paiement invalide")
		}
		payment.PaidAt = paidAt
	}

	var reference string
	switch {
	case req.InvoiceID != nil:
		id, err := uuid.Parse(*req.InvoiceID)
		if err != nil {
			return nil, errors.New("identifiant de facture invalide")
		}
		invoice, err := s.invoices.FindByID(ctx, id)
		if err != nil {
			return nil, errors.New("facture introuvable")
		}
		payment.InvoiceID = &invoice.ID
		reference = invoice.Reference
	case req.DevisID != nil:
		id, err := uuid.Parse(*req.DevisID)
		if err != nil {
			return nil, errors.New("identifiant de devis invalide")
		}
		d, err := s.devis.FindByID(ctx, id)
		if err != nil {
			return nil, errors.New("devis introuvable")
		}
		if d.Status == model.StatusCancelled {
			return nil, errors.New("impossible d'encaisser un paiement sur un devis annulé")
		}
		payment.DevisID = &d.ID
		reference = d.Reference
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.notifications.Emit(ctx, "payment_registered", "Paiement enregistré",
		fmt.Sprintf("Paiement de %s reçu sur %s", req.Amount.StringFixed(2), reference), nil)

	return paymentToResponse(payment), nil
}

func (s *caisseService) InvoiceStats(ctx context.Context, invoiceID uuid.UUID) (*dto.PaymentStats, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, errors.New("facture introuvable")
	}
	paid, err := s.payments.SumByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return paymentStats(invoice.TotalAmount, paid), nil
}

func (s *caisseService) DevisStats(ctx context.Context, devisID uuid.UUID) (*dto.PaymentStats, error) {
	d, err := s.devis.FindByID(ctx, devisID)
	if err != nil {
		return nil, errors.New("devis introuvable")
	}
	paid, err := s.payments.SumByDevis(ctx, devisID)
	if err != nil {
		return nil, err
	}
	return paymentStats(d.TotalAmount, paid), nil
}

func (s *caisseService) Ledger(ctx context.Context, filter dto.LedgerFilter) (*dto.LedgerResponse, error) {
	if err := validateDateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	from, to, err := parseRange(filter.From, filter.To)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.LedgerResponse{
		Entries:      make([]dto.LedgerEntry, 0, len(payments)+len(expenses)),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	type dated struct {
		entry dto.LedgerEntry
		at    time.Time
	}
	rows := make([]dated, 0, len(payments)+len(expenses))

	for i := range payments {
		p := &payments[i]
		method := p.Method
		rows = append(rows, dated{
			entry: dto.LedgerEntry{
				Kind:   "income",
				Label:  paymentLabel(p),
				Amount: p.Amount,
				Method: &method,
				Date:   p.PaidAt.Format("2006-01-02"),
			},
			at: p.PaidAt,
		})
		resp.TotalIncome = resp.TotalIncome.Add(p.Amount)
	}
	for i := range expenses {
		e := &expenses[i]
		label := e.Label
		if e.Category != nil {
			label = e.Category.Name + ": " + e.Label
		}
		rows = append(rows, dated{
			entry: dto.LedgerEntry{
				Kind:   "expense",
				Label:  label,
				Amount: e.Amount,
				Date:   e.SpentAt.Format("2006-01-02"),
			},
			at: e.SpentAt,
		})
		resp.TotalExpense = resp.TotalExpense.Add(e.Amount)
	}

	// Chronological merge; incomes sort before expenses on the same instant.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].at.Equal(rows[j].at) {
			return rows[i].entry.Kind == "income" && rows[j].entry.Kind == "expense"
		}
		return rows[i].at.Before(rows[j].at)
	})
	for _, r := range rows {
		resp.Entries = append(resp.Entries, r.entry)
	}
	resp.Balance = resp.TotalIncome.Sub(resp.TotalExpense)
	return resp, nil
}

func (s *caisseService) CreateClosure(ctx context.Context, employeeID uuid.UUID, req dto.CreateClosureRequest) (*dto.ClosureResponse, error) {
	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return nil, errors.New("date de début invalide")
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return nil, errors.New("date de fin invalide")
	}
	if start.After(end) {
		return nil, errors.New("la date de début doit précéder la date de fin")
	}
	// Include the whole closing day.
	endOfDay := end.Add(24*time.Hour - time.Second)

	income, err := s.payments.SumInRange(ctx, &start, &endOfDay)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenses.SumInRange(ctx, &start, &endOfDay)
	if err != nil {
		return nil, err
	}

	scope := req.Scope
	if scope == "" {
		scope = "caisse"
	}
	closure := &model.FinancialClosure{
		PeriodStart:  start,
		PeriodEnd:    end,
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		Scope:        scope,
		ClosedByID:   employeeID,
	}
	if err := s.closures.Create(ctx, closure); err != nil {
		return nil, err
	}

	s.notifications.Emit(ctx, "closure_created", "Clôture financière",
		fmt.Sprintf("Période du %s au %s clôturée, solde %s", req.PeriodStart, req.PeriodEnd, closure.Balance.StringFixed(2)),
		&employeeID)

	return closureToResponse(closure), nil
}

func (s *caisseService) ListClosures(ctx context.Context) ([]dto.ClosureResponse, error) {
	closures, err := s.closures.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClosureResponse, len(closures))
	for i := range closures {
		out[i] = *closureToResponse(&closures[i])
	}
	return out, nil
}

// paymentStats clamps the remaining amount at zero so over-payments never
// show a negative balance.
func paymentStats(total, paid decimal.Decimal) *dto.PaymentStats {
	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percent := decimal.Zero
	if total.IsPositive() {
		percent = paid.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &dto.PaymentStats{
		TotalPaid:   paid,
		Remaining:   remaining,
		PercentPaid: percent,
		IsPaid:      total.IsPositive() && paid.GreaterThanOrEqual(total),
	}
}

func paymentLabel(p *model.Payment) string {
	if p.Reference != nil && *p.Reference != "" {
		return "Paiement " + *p.Reference
	}
	return "Paiement"
}

func paymentToResponse(p *model.Payment) *dto.PaymentResponse {
	resp := &dto.PaymentResponse{
		ID:        p.ID.String(),
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		Notes:     p.Notes,
		PaidAt:    p.PaidAt.Format("2006-01-02"),
	}
	if p.InvoiceID != nil {
		id := p.InvoiceID.String()
		resp.InvoiceID = &id
	}
	if p.DevisID != nil {
		id := p.DevisID.String()
		resp.DevisID = &id
	}
	return resp
}

func closureToResponse(c *model.FinancialClosure) *dto.ClosureResponse {
	resp := &dto.ClosureResponse{
		ID:           c.ID.String(),
		PeriodStart:  c.PeriodStart.Format("2006-01-02"),
		PeriodEnd:    c.PeriodEnd.Format("2006-01-02"),
		TotalIncome:  c.TotalIncome,
		TotalExpense: c.TotalExpense,
		Balance:      c.Balance,
		Scope:        c.Scope,
		ClosedBy:     c.ClosedByID.String(),
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
	// ClosedBy is always the employee id; the display name rides along only
	// when the relation was preloaded.
	if c.ClosedBy != nil {
		resp.ClosedByName = &c.ClosedBy.Name
	}
	return resp
}

// parseRange converts optional YYYY-MM-DD bounds into time pointers; the "to"
// bound is extended to the end of its day.
func parseRange(from, to string) (*time.Time, *time.Time, error) {
	var fromT, toT *time.Time
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, nil, errors.New("date de début invalide")
		}
		fromT = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, nil, errors.New("date de fin invalide")
		}
		end := t.Add(24*time.Hour - time.Second)
		toT = &end
	}
	return fromT, toT, nil
}
