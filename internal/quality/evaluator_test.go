package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintools-ar/invoice-extractor/internal/entity"
)

func wellFormedExtraction() *entity.CanonicalInvoiceExtraction {
	return &entity.CanonicalInvoiceExtraction{
		Supplier:          "ACME SA",
		ClientID:          "client-42",
		DocumentID:        "7b44b4a1-95a5-4f0e-9a3b-7a0f4a1a2b3c",
		InvoiceNumber:     "0001-00001234",
		InvoiceDate:       "2026-08-01",
		Currency:          "ARS",
		Subtotal:          "100",
		IVATotal:          "21",
		PerceptionsTotal:  "0",
		GrandTotal:        "121",
		ExtractorPrimary:  "docai",
		ExtractConfidence: 0.95,
		Lines: []entity.InvoiceLine{
			{LineNo: 1, Description: "widget", Qty: "2", UnitPrice: "25", LineTotal: "50"},
			{LineNo: 2, Description: "gadget", Qty: "1", UnitPrice: "50", LineTotal: "50"},
		},
	}
}

func TestEvaluateWellFormedExtractionPasses(t *testing.T) {
	e := NewEvaluator(0.5)
	verdict := e.Evaluate(wellFormedExtraction())

	assert.False(t, verdict.NeedsReview)
	assert.Equal(t, 1.0, verdict.Score)
	assert.Empty(t, verdict.Reasons)
	for name, ok := range verdict.Checks {
		assert.True(t, ok, "rule %s should pass", name)
	}
}

func TestEvaluateTotalsScenario(t *testing.T) {
	e := NewEvaluator(0)

	ext := wellFormedExtraction()
	verdict := e.Evaluate(ext)
	require.True(t, verdict.Checks[RuleTotalsConsistency])

	ext.GrandTotal = "140"
	verdict = e.Evaluate(ext)
	assert.False(t, verdict.Checks[RuleTotalsConsistency])
	assert.True(t, verdict.NeedsReview)
	assert.Contains(t, verdict.Reasons, "totals_consistency_failed")
}

func TestEvaluateTotalsTolerance(t *testing.T) {
	e := NewEvaluator(0)

	tests := []struct {
		name       string
		grandTotal string
		wantOK     bool
	}{
		{"exact", "121", true},
		{"one minor unit under", "120.99", true},
		{"one minor unit over", "121.01", true},
		{"beyond tolerance", "121.02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := wellFormedExtraction()
			ext.GrandTotal = tt.grandTotal
			verdict := e.Evaluate(ext)
			assert.Equal(t, tt.wantOK, verdict.Checks[RuleTotalsConsistency])
		})
	}
}

func TestEvaluateRequiredFields(t *testing.T) {
	e := NewEvaluator(0)

	mutations := []struct {
		name   string
		mutate func(*entity.CanonicalInvoiceExtraction)
	}{
		{"empty invoice_number", func(x *entity.CanonicalInvoiceExtraction) { x.InvoiceNumber = "" }},
		{"empty document_id", func(x *entity.CanonicalInvoiceExtraction) { x.DocumentID = "" }},
		{"empty supplier", func(x *entity.CanonicalInvoiceExtraction) { x.Supplier = "" }},
		{"empty client_id", func(x *entity.CanonicalInvoiceExtraction) { x.ClientID = "" }},
		{"empty invoice_date", func(x *entity.CanonicalInvoiceExtraction) { x.InvoiceDate = "" }},
		{"empty currency", func(x *entity.CanonicalInvoiceExtraction) { x.Currency = "" }},
		{"empty grand_total", func(x *entity.CanonicalInvoiceExtraction) { x.GrandTotal = "" }},
		{"whitespace supplier", func(x *entity.CanonicalInvoiceExtraction) { x.Supplier = "   " }},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			ext := wellFormedExtraction()
			tt.mutate(ext)
			verdict := e.Evaluate(ext)
			assert.False(t, verdict.Checks[RuleRequiredFields])
			assert.True(t, verdict.NeedsReview)
			assert.Contains(t, verdict.Reasons, "required_fields_failed")
		})
	}
}

func TestEvaluateUnparsableTotalsFail(t *testing.T) {
	e := NewEvaluator(0)
	ext := wellFormedExtraction()
	ext.Subtotal = "hundred"

	verdict := e.Evaluate(ext)
	assert.False(t, verdict.Checks[RuleTotalsConsistency])
	assert.False(t, verdict.Checks[RuleLineTotals])
	assert.True(t, verdict.NeedsReview)
}

func TestEvaluateEmptyLines(t *testing.T) {
	e := NewEvaluator(0)
	ext := wellFormedExtraction()
	ext.Lines = nil

	verdict := e.Evaluate(ext)
	assert.False(t, verdict.Checks[RuleLinesPresent])
	// line reconciliation is vacuous without lines
	assert.True(t, verdict.Checks[RuleLineTotals])
	assert.Contains(t, verdict.Reasons, "lines_present_failed")
}

func TestEvaluateLineTotalsMismatch(t *testing.T) {
	e := NewEvaluator(0)
	ext := wellFormedExtraction()
	ext.Lines[1].LineTotal = "60"

	verdict := e.Evaluate(ext)
	assert.False(t, verdict.Checks[RuleLineTotals])
	assert.Contains(t, verdict.Reasons, "line_totals_failed")
}

func TestEvaluateConfidenceThreshold(t *testing.T) {
	e := NewEvaluator(0.8)
	ext := wellFormedExtraction()
	ext.ExtractConfidence = 0.6

	verdict := e.Evaluate(ext)
	assert.False(t, verdict.Checks[RuleConfidence])
	assert.Contains(t, verdict.Reasons, "confidence_failed")
}

func TestEvaluateScoreIsFractionOfRulesPassed(t *testing.T) {
	e := NewEvaluator(0)
	ext := wellFormedExtraction()
	ext.InvoiceNumber = ""
	ext.GrandTotal = "999"

	verdict := e.Evaluate(ext)
	// 5 rules, required_fields and totals_consistency fail
	assert.InDelta(t, 3.0/5.0, verdict.Score, 1e-9)
	assert.Len(t, verdict.Checks, 5)
}

func TestEvaluateReasonsAreDeterministicallyOrdered(t *testing.T) {
	e := NewEvaluator(0.9)
	ext := wellFormedExtraction()
	ext.InvoiceNumber = ""
	ext.GrandTotal = "999"
	ext.Lines = nil
	ext.ExtractConfidence = 0.1

	first := e.Evaluate(ext)
	require.Equal(t, []string{
		"required_fields_failed",
		"totals_consistency_failed",
		"lines_present_failed",
		"confidence_failed",
	}, first.Reasons)

	// same input, same order, every time
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.Reasons, e.Evaluate(ext).Reasons)
	}
}
