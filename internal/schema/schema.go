package schema

import "github.com/fintools-ar/invoice-extractor/constants"

// BuildExtractionJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the canonical invoice extraction. Upstream extractors
// are constrained by the same schema, so anything admitted here matches what
// they were asked to produce.
func BuildExtractionJSONSchema() map[string]any {
	lineProps := map[string]any{
		"line_no":     map[string]any{"type": "integer", "minimum": 1},
		"description": map[string]any{"type": "string"},
		"qty":         decimalProp(),
		"unit_price":  decimalProp(),
		"line_total":  decimalProp(),
		"code_raw":    map[string]any{"type": "string"},
	}

	props := map[string]any{
		"supplier":                map[string]any{"type": "string", "minLength": 1},
		"client_id":               map[string]any{"type": "string", "minLength": 1},
		"document_id":             uuidProp(),
		"invoice_number":          map[string]any{"type": "string", "minLength": 1},
		"invoice_internal":        map[string]any{"type": "string"},
		"doc_internal_ref":        map[string]any{"type": "string"},
		"remesa":                  map[string]any{"type": "string"},
		"remito":                  map[string]any{"type": "string"},
		"invoice_date":            dateProp(),
		"due_date":                map[string]any{"type": "string"},
		"currency":                map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"subtotal":                decimalProp(),
		"iva_total":               decimalProp(),
		"perceptions_total":       decimalProp(),
		"grand_total":             decimalProp(),
		"extractor_primary":       map[string]any{"type": "string", "enum": constants.KnownExtractors},
		"extractor_fallback_used": map[string]any{"type": "boolean"},
		"extract_confidence":      map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"raw_extraction":          map[string]any{},
		"lines": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"properties": lineProps,
				"required":   []string{"line_no", "qty", "unit_price", "line_total"},
			},
		},
	}
	required := []string{
		"supplier", "client_id", "document_id", "invoice_number",
		"invoice_date", "currency", "grand_total", "extractor_primary",
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d+)?$`,
	}
}

func uuidProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`,
	}
}

func dateProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}
