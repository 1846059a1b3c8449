package service

import (
	"context"
	"fmt"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ExportService renders xlsx workbooks for the two export screens: the devis
// list and the caisse ledger.
type ExportService interface {
	ExportDevis(ctx context.Context, filter dto.DevisFilter) (*excelize.File, string, error)
	ExportLedger(ctx context.Context, filter dto.LedgerFilter) (*excelize.File, string, error)
}

type exportService struct {
	devis  repository.DevisRepository
	caisse CaisseService
}

func NewExportService(devis repository.DevisRepository, caisse CaisseService) ExportService {
	return &exportService{devis: devis, caisse: caisse}
}

func (s *exportService) ExportDevis(ctx context.Context, filter dto.DevisFilter) (*excelize.File, string, error) {
	// Exports ignore pagination: the whole filtered set goes in the file.
	filter.Page = 1
	filter.Limit = 10000
	devis, _, err := s.devis.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	const sheet = "Devis"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Référence", "Client", "Statut", "Montant", "Lignes", "Services", "Créé le"}
	writeHeaderRow(f, sheet, headers)

	for i := range devis {
		d := &devis[i]
		row := i + 2
		clientName := ""
		if d.Client != nil {
			clientName = d.Client.Name
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.Reference)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), clientName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.Status.Label())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), d.TotalAmount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), len(d.Lines))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), len(d.Services))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), d.CreatedAt.Format("2006-01-02"))
	}

	widths := []float64{16, 28, 12, 12, 8, 9, 12}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("devis_%s.xlsx", time.Now().Format("2006-01-02"))
	return f, filename, nil
}

func (s *exportService) ExportLedger(ctx context.Context, filter dto.LedgerFilter) (*excelize.File, string, error) {
	ledger, err := s.caisse.Ledger(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	const sheet = "Caisse"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Type", "Libellé", "Méthode", "Entrée", "Sortie"}
	writeHeaderRow(f, sheet, headers)

	row := 2
	for _, e := range ledger.Entries {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.Date)
		method := ""
		if e.Method != nil {
			method = *e.Method
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), method)
		if e.Kind == "income" {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Entrée")
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.Amount.InexactFloat64())
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Sortie")
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), e.Amount.InexactFloat64())
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.Label)
		row++
	}

	// Totals row below the entries.
	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Totaux")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), ledger.TotalIncome.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), ledger.TotalExpense.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row+1), "Solde")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row+1), ledger.Balance.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("F%d", row+1), totalStyle)

	widths := []float64{12, 10, 40, 12, 12, 12}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("caisse_%s.xlsx", time.Now().Format("2006-01-02"))
	return f, filename, nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
