package worker

// pdf_worker.go
// Processes invoice PDF jobs from QueuePDF: renders the invoice document,
// stores its path and optionally chains an email job to the client.

import (
	"context"
	"encoding/json"
	"fmt"

	"gravoplus/internal/infra"
	"gravoplus/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PDFJobPayload is the job envelope sent to QueuePDF.
type PDFJobPayload struct {
	InvoiceID string `json:"invoice_id"`
}

type PDFWorker struct {
	invoiceRepo    repository.InvoiceRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	companyName    string
}

func NewPDFWorker(
	invoiceRepo repository.InvoiceRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	companyName string,
) *PDFWorker {
	return &PDFWorker{
		invoiceRepo:    invoiceRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		companyName:    companyName,
	}
}

// Process renders the PDF for one invoice:
//  1. Parse PDFJobPayload from the job envelope
//  2. Fetch the invoice with its devis, lines and client
//  3. Render the document under pdfStoragePath
//  4. Store the path on the invoice
//  5. Enqueue an email job when the client has an email address
func (w *PDFWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload PDFJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("pdf_worker: invalid payload")
		return nil // malformed payloads never succeed on retry
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("pdf_worker: invalid invoice_id")
		return nil
	}

	invoice, err := w.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("pdf_worker: invoice %s not found: %w", payload.InvoiceID, err)
	}

	pdfPath, err := infra.GenerateInvoicePDF(invoice, w.pdfStoragePath, w.companyName)
	if err != nil {
		return fmt.Errorf("pdf_worker: render failed for %s: %w", invoice.Reference, err)
	}
	if err := w.invoiceRepo.UpdatePDFPath(ctx, invoiceID, pdfPath); err != nil {
		return fmt.Errorf("pdf_worker: failed to store pdf path for %s: %w", invoice.Reference, err)
	}
	log.Info().Str("pdf", pdfPath).Str("reference", invoice.Reference).Msg("pdf_worker: invoice rendered")

	if invoice.Client != nil && invoice.Client.Email != nil && *invoice.Client.Email != "" {
		emailJob := EmailJobPayload{
			ToEmail: *invoice.Client.Email,
			Subject: fmt.Sprintf("Votre facture %s", invoice.Reference),
			Body: fmt.Sprintf("Bonjour,\n\nVeuillez trouver ci-joint votre facture %s d'un montant de %s.\n\nCordialement",
				invoice.Reference, invoice.TotalAmount.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *invoice.Client.Email).Msg("pdf_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *invoice.Client.Email).Msg("pdf_worker: email job enqueued")
		}
	}
	return nil
}
