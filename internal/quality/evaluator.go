package quality

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintools-ar/invoice-extractor/internal/entity"
)

// Rule names, in evaluation order. Reasons are reported in this order so the
// verdict is reproducible for identical input.
const (
	RuleRequiredFields    = "required_fields_ok"
	RuleTotalsConsistency = "totals_consistency_ok"
	RuleLinesPresent      = "lines_present_ok"
	RuleLineTotals        = "line_totals_ok"
	RuleConfidence        = "confidence_ok"
)

// totalsTolerance absorbs one minor currency unit of rounding from upstream
// extraction.
var totalsTolerance = decimal.New(1, -2) // 0.01

type rule struct {
	name  string
	check func(ext *entity.CanonicalInvoiceExtraction) bool
}

// Evaluator scores canonical extractions. It is pure: no I/O, no shared
// mutable state, safe for concurrent use.
type Evaluator struct {
	rules []rule
}

// NewEvaluator builds the rule chain. minConfidence is the threshold below
// which an extraction is flagged for review; zero disables the check.
func NewEvaluator(minConfidence float64) *Evaluator {
	return &Evaluator{
		rules: []rule{
			{RuleRequiredFields, requiredFields},
			{RuleTotalsConsistency, totalsConsistency},
			{RuleLinesPresent, linesPresent},
			{RuleLineTotals, lineTotals},
			{RuleConfidence, func(ext *entity.CanonicalInvoiceExtraction) bool {
				return ext.ExtractConfidence >= minConfidence
			}},
		},
	}
}

// Evaluate runs every rule (never short-circuiting, so reasons are complete)
// and aggregates them into a verdict. Score is the fraction of rules passed.
func (e *Evaluator) Evaluate(ext *entity.CanonicalInvoiceExtraction) entity.QualityVerdict {
	checks := make(map[string]bool, len(e.rules))
	reasons := make([]string, 0)
	passed := 0

	for _, r := range e.rules {
		ok := r.check(ext)
		checks[r.name] = ok
		if ok {
			passed++
		} else {
			reasons = append(reasons, failureReason(r.name))
		}
	}

	return entity.QualityVerdict{
		NeedsReview: passed != len(e.rules),
		Score:       float64(passed) / float64(len(e.rules)),
		Checks:      checks,
		Reasons:     reasons,
	}
}

// failureReason maps "<rule>_ok" to "<rule>_failed".
func failureReason(ruleName string) string {
	return strings.TrimSuffix(ruleName, "_ok") + "_failed"
}

func requiredFields(ext *entity.CanonicalInvoiceExtraction) bool {
	required := []string{
		ext.InvoiceNumber,
		ext.DocumentID,
		ext.Supplier,
		ext.ClientID,
		ext.InvoiceDate,
		ext.Currency,
		ext.GrandTotal,
	}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// totalsConsistency verifies subtotal + iva_total + perceptions_total ==
// grand_total within one minor currency unit, using exact decimal arithmetic.
// Unparsable amounts fail the rule.
func totalsConsistency(ext *entity.CanonicalInvoiceExtraction) bool {
	subtotal, err := decimal.NewFromString(ext.Subtotal)
	if err != nil {
		return false
	}
	iva, err := decimal.NewFromString(ext.IVATotal)
	if err != nil {
		return false
	}
	perceptions, err := decimal.NewFromString(ext.PerceptionsTotal)
	if err != nil {
		return false
	}
	grand, err := decimal.NewFromString(ext.GrandTotal)
	if err != nil {
		return false
	}

	diff := subtotal.Add(iva).Add(perceptions).Sub(grand).Abs()
	return diff.LessThanOrEqual(totalsTolerance)
}

func linesPresent(ext *entity.CanonicalInvoiceExtraction) bool {
	return len(ext.Lines) > 0
}

// lineTotals reconciles the sum of line totals against the subtotal. It is
// vacuously true with no lines; lines_present carries that failure.
func lineTotals(ext *entity.CanonicalInvoiceExtraction) bool {
	if len(ext.Lines) == 0 {
		return true
	}
	subtotal, err := decimal.NewFromString(ext.Subtotal)
	if err != nil {
		return false
	}

	sum := decimal.Zero
	for _, line := range ext.Lines {
		amount, err := decimal.NewFromString(line.LineTotal)
		if err != nil {
			return false
		}
		sum = sum.Add(amount)
	}
	return sum.Sub(subtotal).Abs().LessThanOrEqual(totalsTolerance)
}
