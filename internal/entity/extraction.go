package entity

import "encoding/json"

// CanonicalInvoiceExtraction is the normalized, schema-validated
// representation of an invoice produced by an upstream extractor.
// It is immutable through evaluation and persistence.
type CanonicalInvoiceExtraction struct {
	Supplier              string          `json:"supplier"`
	ClientID              string          `json:"client_id"`
	DocumentID            string          `json:"document_id"`
	InvoiceNumber         string          `json:"invoice_number"`
	InvoiceInternal       string          `json:"invoice_internal,omitempty"`
	DocInternalRef        string          `json:"doc_internal_ref,omitempty"`
	Remesa                string          `json:"remesa,omitempty"`
	Remito                string          `json:"remito,omitempty"`
	InvoiceDate           string          `json:"invoice_date"`
	DueDate               string          `json:"due_date,omitempty"`
	Currency              string          `json:"currency"`
	Subtotal              string          `json:"subtotal"`
	IVATotal              string          `json:"iva_total"`
	PerceptionsTotal      string          `json:"perceptions_total"`
	GrandTotal            string          `json:"grand_total"`
	ExtractorPrimary      string          `json:"extractor_primary"`
	ExtractorFallbackUsed bool            `json:"extractor_fallback_used"`
	ExtractConfidence     float64         `json:"extract_confidence"`
	RawExtraction         json.RawMessage `json:"raw_extraction,omitempty"`
	Lines                 []InvoiceLine   `json:"lines"`
}

// InvoiceLine is a single line item of an extracted invoice.
// Monetary fields are decimal strings; the quality evaluator is the only
// component that parses them numerically.
type InvoiceLine struct {
	LineNo      int    `json:"line_no"`
	Description string `json:"description"`
	Qty         string `json:"qty"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
	CodeRaw     string `json:"code_raw,omitempty"`
}
