package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"
	"gravoplus/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceService interface {
	// CreateFromDevis is the batch composer: every devis must be VALIDATED,
	// not yet invoiced, and belong to the same client.
	CreateFromDevis(ctx context.Context, employeeID uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, clientID string, page, limit int) (*dto.InvoiceListResponse, error)
	// PDFFile returns the rendered PDF path and download filename
	// (<reference>.pdf), or an error while the worker has not rendered it yet.
	PDFFile(ctx context.Context, id uuid.UUID) (path string, filename string, err error)
}

type invoiceService struct {
	repo        repository.InvoiceRepository
	devisRepo   repository.DevisRepository
	paymentRepo repository.PaymentRepository
	dispatcher  *worker.Dispatcher
	notifier    NotificationService
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	devisRepo repository.DevisRepository,
	paymentRepo repository.PaymentRepository,
	dispatcher *worker.Dispatcher,
	notifier NotificationService,
) InvoiceService {
	return &invoiceService{
		repo:        repo,
		devisRepo:   devisRepo,
		paymentRepo: paymentRepo,
		dispatcher:  dispatcher,
		notifier:    notifier,
	}
}

// ── CreateFromDevis ──────────────────────────────────────────────────────────
// Pre-flight outside the transaction: resolve the devis, check eligibility
// and the single-client invariant. Then one ACID transaction: next reference,
// create the invoice, flip every devis to INVOICED. Finally dispatch the PDF
// render job (best-effort, fire & forget).

func (s *invoiceService) CreateFromDevis(ctx context.Context, employeeID uuid.UUID, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	// Dedupe up front: a repeated id would collapse in FindByIDs and
	// masquerade as a missing devis.
	ids := make([]uuid.UUID, 0, len(req.DevisIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.DevisIDs))
	for _, raw := range req.DevisIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("devis_id invalide: %w", err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	devisList, err := s.devisRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(devisList) != len(ids) {
		return nil, errors.New("un ou plusieurs devis sont introuvables")
	}

	var clientID uuid.UUID
	total := decimal.Zero
	for i := range devisList {
		d := &devisList[i]
		if d.Status != model.StatusValidated {
			return nil, fmt.Errorf("le devis %s n'est pas validé", d.Reference)
		}
		if d.InvoiceID != nil {
			return nil, fmt.Errorf("le devis %s est déjà facturé", d.Reference)
		}
		if i == 0 {
			clientID = d.ClientID
		} else if d.ClientID != clientID {
			// An invoice belongs to exactly one client.
			return nil, errors.New("tous les devis doivent appartenir au même client")
		}
		total = total.Add(d.TotalAmount)
	}

	var invoice model.Invoice
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.repo.NextReference(ctx, tx)
		if err != nil {
			return err
		}
		invoice = model.Invoice{
			Reference:   fmt.Sprintf("FAC-%d-%04d", time.Now().Year(), num),
			TotalAmount: total,
			ClientID:    clientID,
			CreatedByID: employeeID,
		}
		if err := s.repo.CreateTx(tx, &invoice); err != nil {
			return err
		}
		for _, d := range devisList {
			if err := s.devisRepo.SetInvoiceTx(tx, d.ID, invoice.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueuePDF(ctx, worker.PDFJobPayload{InvoiceID: invoice.ID.String()})
	}
	s.notifier.Emit(ctx, "invoice_created", "Facture créée",
		fmt.Sprintf("La facture %s a été créée à partir de %d devis", invoice.Reference, len(devisList)), &employeeID)

	return s.Get(ctx, invoice.ID)
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("facture introuvable")
	}
	resp := invoiceToResponse(invoice)
	resp.Stats = buildPaymentStats(invoice.TotalAmount, invoice.Payments)
	return resp, nil
}

func (s *invoiceService) List(ctx context.Context, clientID string, page, limit int) (*dto.InvoiceListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	invoices, total, err := s.repo.List(ctx, clientID, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		resp := invoiceToResponse(&invoices[i])
		resp.Stats = buildPaymentStats(invoices[i].TotalAmount, invoices[i].Payments)
		data = append(data, *resp)
	}
	return &dto.InvoiceListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *invoiceService) PDFFile(ctx context.Context, id uuid.UUID) (string, string, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", "", errors.New("facture introuvable")
	}
	if invoice.PDFPath == nil {
		return "", "", errors.New("le PDF n'est pas encore généré")
	}
	return *invoice.PDFPath, invoice.Reference + ".pdf", nil
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	devis := make([]dto.DevisResponse, 0, len(inv.Devis))
	for i := range inv.Devis {
		devis = append(devis, *devisToResponse(&inv.Devis[i]))
	}
	resp := &dto.InvoiceResponse{
		ID:          inv.ID.String(),
		Reference:   inv.Reference,
		TotalAmount: inv.TotalAmount,
		ClientID:    inv.ClientID.String(),
		Devis:       devis,
		PDFReady:    inv.PDFPath != nil,
		CreatedAt:   inv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inv.Client != nil {
		resp.Client = clientToResponse(inv.Client)
	}
	return resp
}

// buildPaymentStats sums the payment rows and delegates the aggregate rules
// (clamping, percent, paid flag) to paymentStats.
func buildPaymentStats(total decimal.Decimal, payments []model.Payment) *dto.PaymentStats {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return paymentStats(total, paid)
}
