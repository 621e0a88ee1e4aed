package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fintools-ar/invoice-extractor/internal/entity"
)

// ReviewItem pairs an extraction with its verdict for the review sheet.
type ReviewItem struct {
	Extraction entity.CanonicalInvoiceExtraction `json:"extraction"`
	Verdict    entity.QualityVerdict             `json:"verdict"`
}

// Service renders evaluated extractions into XLSX workbooks for human
// reviewers. It is stateless; the caller supplies the batch.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReviewSheetXLSX returns an XLSX workbook (as bytes) with one row per
// extraction: identity, totals, score, and failed rules, needs_review items
// first so triage starts at the top.
func (s *Service) ReviewSheetXLSX(items []ReviewItem) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Review"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document ID",
		"Supplier",
		"Invoice Number",
		"Invoice Date",
		"Currency",
		"Grand Total",
		"Lines",
		"Extractor",
		"Confidence",
		"Score",
		"Needs Review",
		"Failed Rules",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	// needs_review rows first
	ordered := make([]ReviewItem, 0, len(items))
	for _, it := range items {
		if it.Verdict.NeedsReview {
			ordered = append(ordered, it)
		}
	}
	for _, it := range items {
		if !it.Verdict.NeedsReview {
			ordered = append(ordered, it)
		}
	}

	row := 2
	for _, it := range ordered {
		ext := it.Extraction

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, ext.DocumentID)
		write(2, ext.Supplier)
		write(3, ext.InvoiceNumber)
		write(4, ext.InvoiceDate)
		write(5, ext.Currency)
		write(6, ext.GrandTotal)
		write(7, len(ext.Lines))
		write(8, ext.ExtractorPrimary)
		write(9, fmt.Sprintf("%.2f", ext.ExtractConfidence))
		write(10, fmt.Sprintf("%.2f", it.Verdict.Score))
		write(11, it.Verdict.NeedsReview)
		write(12, strings.Join(it.Verdict.Reasons, ", "))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 38) // document id
	_ = f.SetColWidth(sheet, "B", "C", 24) // supplier, invoice number
	_ = f.SetColWidth(sheet, "D", "F", 14) // date, currency, total
	_ = f.SetColWidth(sheet, "L", "L", 48) // failed rules

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.review_sheet.ok",
		"rows", len(ordered),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
