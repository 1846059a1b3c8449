package infra

// pdf.go — Invoice PDF generation using go-pdf/fpdf.
// Generates an A4 document with:
//   - Company name header and invoice reference
//   - Client block
//   - One section per source devis with its line table
//   - Attached fixed services
//   - Bold grand total

import (
	"fmt"
	"os"
	"path/filepath"

	"gravoplus/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateInvoicePDF renders the invoice document and returns the absolute
// path of the written file. storagePath is created if needed.
func GenerateInvoicePDF(invoice *model.Invoice, storagePath, companyName string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := invoice.Reference + ".pdf"
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, companyName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Facture "+invoice.Reference, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, invoice.CreatedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Client block ─────────────────────────────────────────────────────────
	if invoice.Client != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Client", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 5, invoice.Client.Name, "", 1, "L", false, 0, "")
		if invoice.Client.Address != nil {
			pdf.CellFormat(contentW, 5, *invoice.Client.Address, "", 1, "L", false, 0, "")
		}
		if invoice.Client.Phone != nil {
			pdf.CellFormat(contentW, 5, *invoice.Client.Phone, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	// ── Devis sections ───────────────────────────────────────────────────────
	col1 := contentW * 0.62 // description
	col2 := contentW * 0.14 // machine type
	col3 := contentW * 0.24 // amount

	for i := range invoice.Devis {
		d := &invoice.Devis[i]

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 7, "Devis "+d.Reference, "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1, 6, "Désignation", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "Machine", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "Montant", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, line := range d.Lines {
			descr := line.MachineType.Label()
			if line.Description != nil && *line.Description != "" {
				descr = *line.Description
			}
			pdf.CellFormat(col1, 5, descr, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, string(line.MachineType), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, line.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
		}
		for _, svc := range d.Services {
			name := "Service"
			if svc.Service != nil {
				name = svc.Service.Name
			}
			pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, "-", "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, svc.Price.StringFixed(2), "", 1, "R", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1+col2, 6, "Sous-total "+d.Reference, "T", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, d.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	// ── Grand total ──────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(col1+col2, 8, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 8, invoice.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
