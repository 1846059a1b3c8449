package service

// In-memory repository stubs shared by the service tests. They mirror the
// repository contracts closely enough for unit tests: tx parameters are
// ignored and DB() returns nil so runTx executes callbacks directly.

import (
	"context"
	"sort"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

// errNotFound mirrors what a gorm First() miss returns.
var errNotFound = gorm.ErrRecordNotFound

// ── Notifier spy ─────────────────────────────────────────────────────────────

type emittedNotification struct {
	Type    string
	Title   string
	Message string
}

type spyNotifier struct {
	emitted []emittedNotification
}

func (n *spyNotifier) Emit(_ context.Context, typ, title, message string, _ *uuid.UUID) {
	n.emitted = append(n.emitted, emittedNotification{Type: typ, Title: title, Message: message})
}

func (n *spyNotifier) List(_ context.Context, _ int) ([]dto.NotificationResponse, error) {
	return nil, nil
}
func (n *spyNotifier) MarkRead(_ context.Context, _ uuid.UUID) error { return nil }
func (n *spyNotifier) MarkAllRead(_ context.Context) error           { return nil }
func (n *spyNotifier) CountUnread(_ context.Context) (int64, error)  { return 0, nil }

// ── Devis repository ─────────────────────────────────────────────────────────

type stubDevisRepo struct {
	devis   map[uuid.UUID]*model.Devis
	lines   map[uuid.UUID]*model.DevisLine
	items   map[uuid.UUID]*model.DevisServiceItem
	nextRef int
	seq     int // strictly monotonic created_at for deterministic ordering
}

func (r *stubDevisRepo) nextCreatedAt() time.Time {
	r.seq++
	return time.Now().Add(time.Duration(r.seq) * time.Microsecond)
}

func newStubDevisRepo() *stubDevisRepo {
	return &stubDevisRepo{
		devis: make(map[uuid.UUID]*model.Devis),
		lines: make(map[uuid.UUID]*model.DevisLine),
		items: make(map[uuid.UUID]*model.DevisServiceItem),
	}
}

func (r *stubDevisRepo) DB() *gorm.DB { return nil }

func (r *stubDevisRepo) Create(_ context.Context, d *model.Devis) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	cloned := *d
	r.devis[d.ID] = &cloned
	return nil
}

func (r *stubDevisRepo) CreateTx(_ *gorm.DB, d *model.Devis) error {
	return r.Create(context.Background(), d)
}

func (r *stubDevisRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Devis, error) {
	d, ok := r.devis[id]
	if !ok {
		return nil, errNotFound
	}
	out := *d
	out.Lines = nil
	out.Services = nil
	for _, l := range r.lines {
		if l.DevisID == id {
			out.Lines = append(out.Lines, *l)
		}
	}
	for _, item := range r.items {
		if item.DevisID == id {
			out.Services = append(out.Services, *item)
		}
	}
	// same ordering contract as the gorm repo: created_at ASC
	sort.Slice(out.Lines, func(i, j int) bool {
		return out.Lines[i].CreatedAt.Before(out.Lines[j].CreatedAt)
	})
	sort.Slice(out.Services, func(i, j int) bool {
		return out.Services[i].CreatedAt.Before(out.Services[j].CreatedAt)
	})
	return &out, nil
}

func (r *stubDevisRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Devis, error) {
	out := make([]model.Devis, 0, len(ids))
	for _, id := range ids {
		if d, ok := r.devis[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDevisRepo) List(_ context.Context, _ dto.DevisFilter) ([]model.Devis, int64, error) {
	out := make([]model.Devis, 0, len(r.devis))
	for _, d := range r.devis {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDevisRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status model.DevisStatus) error {
	d, ok := r.devis[id]
	if !ok {
		return errNotFound
	}
	d.Status = status
	return nil
}

func (r *stubDevisRepo) UpdateTotalTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	d, ok := r.devis[id]
	if !ok {
		return errNotFound
	}
	d.TotalAmount = total
	return nil
}

func (r *stubDevisRepo) SetInvoiceTx(_ *gorm.DB, id uuid.UUID, invoiceID uuid.UUID) error {
	d, ok := r.devis[id]
	if !ok {
		return errNotFound
	}
	d.InvoiceID = &invoiceID
	d.Status = model.StatusInvoiced
	return nil
}

func (r *stubDevisRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.devis, id)
	return nil
}

func (r *stubDevisRepo) NextReference(_ context.Context, _ *gorm.DB) (int, error) {
	r.nextRef++
	return r.nextRef, nil
}

func (r *stubDevisRepo) SumItemsTx(_ *gorm.DB, devisID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.lines {
		if l.DevisID == devisID {
			total = total.Add(l.LineTotal)
		}
	}
	for _, item := range r.items {
		if item.DevisID == devisID {
			total = total.Add(item.Price)
		}
	}
	return total, nil
}

func (r *stubDevisRepo) CreateLineTx(_ *gorm.DB, l *model.DevisLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = r.nextCreatedAt()
	cloned := *l
	r.lines[l.ID] = &cloned
	return nil
}

func (r *stubDevisRepo) FindLine(_ context.Context, devisID, lineID uuid.UUID) (*model.DevisLine, error) {
	l, ok := r.lines[lineID]
	if !ok || l.DevisID != devisID {
		return nil, errNotFound
	}
	return l, nil
}

func (r *stubDevisRepo) DeleteLineTx(_ *gorm.DB, lineID uuid.UUID) error {
	delete(r.lines, lineID)
	return nil
}

func (r *stubDevisRepo) CreateServiceItemTx(_ *gorm.DB, item *model.DevisServiceItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = r.nextCreatedAt()
	cloned := *item
	r.items[item.ID] = &cloned
	return nil
}

func (r *stubDevisRepo) FindServiceItem(_ context.Context, devisID, serviceID uuid.UUID) (*model.DevisServiceItem, error) {
	for _, item := range r.items {
		if item.DevisID == devisID && item.ServiceID == serviceID {
			return item, nil
		}
	}
	return nil, errNotFound
}

func (r *stubDevisRepo) DeleteServiceItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

// ── Client repository ────────────────────────────────────────────────────────

type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.clients[c.ID] = &cloned
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubClientRepo) List(_ context.Context, _ string) ([]model.Client, error) {
	out := make([]model.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	cloned := *c
	r.clients[c.ID] = &cloned
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

func (r *stubClientRepo) CountDevis(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil }

// ── Catalog repositories ─────────────────────────────────────────────────────

type stubMachineRepo struct {
	machines map[model.MachineType]*model.Machine
}

func newStubMachineRepo() *stubMachineRepo {
	return &stubMachineRepo{machines: make(map[model.MachineType]*model.Machine)}
}

func (r *stubMachineRepo) add(m model.Machine) *model.Machine {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Active = true
	r.machines[m.Type] = &m
	return &m
}

func (r *stubMachineRepo) Create(_ context.Context, m *model.Machine) error {
	r.add(*m)
	return nil
}

func (r *stubMachineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Machine, error) {
	for _, m := range r.machines {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, errNotFound
}

func (r *stubMachineRepo) FindByType(_ context.Context, t model.MachineType) (*model.Machine, error) {
	m, ok := r.machines[t]
	if !ok || !m.Active {
		return nil, errNotFound
	}
	return m, nil
}

func (r *stubMachineRepo) List(_ context.Context) ([]model.Machine, error) {
	out := make([]model.Machine, 0, len(r.machines))
	for _, m := range r.machines {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMachineRepo) Update(_ context.Context, m *model.Machine) error {
	r.machines[m.Type] = m
	return nil
}

func (r *stubMachineRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	for _, m := range r.machines {
		if m.ID == id {
			m.Active = false
		}
	}
	return nil
}

type stubMaterialRepo struct {
	materials map[uuid.UUID]*model.Material
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{materials: make(map[uuid.UUID]*model.Material)}
}

func (r *stubMaterialRepo) add(m model.Material) *model.Material {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Active = true
	r.materials[m.ID] = &m
	return &m
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	r.add(*m)
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, errNotFound
	}
	return m, nil
}

func (r *stubMaterialRepo) List(_ context.Context) ([]model.Material, error) {
	out := make([]model.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMaterialRepo) Update(_ context.Context, m *model.Material) error {
	r.materials[m.ID] = m
	return nil
}

func (r *stubMaterialRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if m, ok := r.materials[id]; ok {
		m.Active = false
	}
	return nil
}

type stubFixedServiceRepo struct {
	services map[uuid.UUID]*model.FixedService
}

func newStubFixedServiceRepo() *stubFixedServiceRepo {
	return &stubFixedServiceRepo{services: make(map[uuid.UUID]*model.FixedService)}
}

func (r *stubFixedServiceRepo) add(s model.FixedService) *model.FixedService {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.services[s.ID] = &s
	return &s
}

func (r *stubFixedServiceRepo) Create(_ context.Context, s *model.FixedService) error {
	r.add(*s)
	return nil
}

func (r *stubFixedServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FixedService, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubFixedServiceRepo) ListActive(_ context.Context) ([]model.FixedService, error) {
	var out []model.FixedService
	for _, s := range r.services {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubFixedServiceRepo) Update(_ context.Context, s *model.FixedService) error {
	r.services[s.ID] = s
	return nil
}

func (r *stubFixedServiceRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if s, ok := r.services[id]; ok {
		s.IsActive = false
	}
	return nil
}

// ── Invoice repository ───────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	nextRef  int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	cloned := *inv
	r.invoices[inv.ID] = &cloned
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, errNotFound
	}
	out := *inv
	return &out, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _ string, _, _ int) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) NextReference(_ context.Context, _ *gorm.DB) (int, error) {
	r.nextRef++
	return r.nextRef, nil
}

func (r *stubInvoiceRepo) UpdatePDFPath(_ context.Context, id uuid.UUID, path string) error {
	inv, ok := r.invoices[id]
	if !ok {
		return errNotFound
	}
	inv.PDFPath = &path
	return nil
}

// ── Payment repository ───────────────────────────────────────────────────────

type stubPaymentRepo struct {
	payments []model.Payment
}

func newStubPaymentRepo() *stubPaymentRepo { return &stubPaymentRepo{} }

func (r *stubPaymentRepo) Create(_ context.Context, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubPaymentRepo) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) ListByDevis(_ context.Context, devisID uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if p.DevisID != nil && *p.DevisID == devisID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	rows, _ := r.ListByInvoice(ctx, invoiceID)
	total := decimal.Zero
	for _, p := range rows {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (r *stubPaymentRepo) SumByDevis(ctx context.Context, devisID uuid.UUID) (decimal.Decimal, error) {
	rows, _ := r.ListByDevis(ctx, devisID)
	total := decimal.Zero
	for _, p := range rows {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (r *stubPaymentRepo) ListInRange(_ context.Context, from, to *time.Time) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if inRange(p.PaidAt, from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) SumInRange(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	rows, _ := r.ListInRange(ctx, from, to)
	total := decimal.Zero
	for _, p := range rows {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// ── Expense repository ───────────────────────────────────────────────────────

type stubExpenseRepo struct {
	categories map[uuid.UUID]*model.ExpenseCategory
	expenses   map[uuid.UUID]*model.Expense
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{
		categories: make(map[uuid.UUID]*model.ExpenseCategory),
		expenses:   make(map[uuid.UUID]*model.Expense),
	}
}

func (r *stubExpenseRepo) CreateCategory(_ context.Context, c *model.ExpenseCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.categories[c.ID] = &cloned
	return nil
}

func (r *stubExpenseRepo) ListCategories(_ context.Context) ([]model.ExpenseCategory, error) {
	out := make([]model.ExpenseCategory, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubExpenseRepo) UpdateCategory(_ context.Context, c *model.ExpenseCategory) error {
	cloned := *c
	r.categories[c.ID] = &cloned
	return nil
}

func (r *stubExpenseRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *stubExpenseRepo) CountInCategory(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.expenses {
		if e.CategoryID == id {
			n++
		}
	}
	return n, nil
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cloned := *e
	r.expenses[e.ID] = &cloned
	return nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, errNotFound
	}
	out := *e
	if cat, ok := r.categories[e.CategoryID]; ok {
		out.Category = cat
	}
	return &out, nil
}

func (r *stubExpenseRepo) List(_ context.Context, _ dto.ExpenseFilter) ([]model.Expense, int64, error) {
	out := make([]model.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *stubExpenseRepo) Update(_ context.Context, e *model.Expense) error {
	cloned := *e
	r.expenses[e.ID] = &cloned
	return nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.expenses, id)
	return nil
}

func (r *stubExpenseRepo) ListInRange(_ context.Context, from, to *time.Time) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range r.expenses {
		if inRange(e.SpentAt, from, to) {
			row := *e
			if cat, ok := r.categories[e.CategoryID]; ok {
				row.Category = cat
			}
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubExpenseRepo) SumInRange(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	rows, _ := r.ListInRange(ctx, from, to)
	total := decimal.Zero
	for _, e := range rows {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// ── Closure repository ───────────────────────────────────────────────────────

type stubClosureRepo struct {
	closures []model.FinancialClosure
}

func newStubClosureRepo() *stubClosureRepo { return &stubClosureRepo{} }

func (r *stubClosureRepo) Create(_ context.Context, c *model.FinancialClosure) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.closures = append(r.closures, *c)
	return nil
}

func (r *stubClosureRepo) List(_ context.Context) ([]model.FinancialClosure, error) {
	return append([]model.FinancialClosure(nil), r.closures...), nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
