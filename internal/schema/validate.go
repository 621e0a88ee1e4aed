package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fintools-ar/invoice-extractor/internal/common"
	"github.com/fintools-ar/invoice-extractor/internal/entity"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// AdmitExtraction decodes raw extraction JSON and enforces the structural
// preconditions before the extraction enters the pipeline. Failures wrap
// common.ErrValidation and never reach persistence.
func AdmitExtraction(data []byte) (*entity.CanonicalInvoiceExtraction, error) {
	if err := ValidateJSONAgainstSchema(BuildExtractionJSONSchema(), data); err != nil {
		return nil, common.NewAppError("SCHEMA_ERROR", err.Error(), common.ErrValidation)
	}

	var ext entity.CanonicalInvoiceExtraction
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, common.NewAppError("SCHEMA_ERROR", err.Error(), common.ErrValidation)
	}

	v := common.NewValidator()
	v.Field("document_id", ext.DocumentID, common.Required, common.UUID)
	v.Field("invoice_number", ext.InvoiceNumber, common.Required)
	v.Field("supplier", ext.Supplier, common.Required)
	v.Field("currency", ext.Currency, common.CurrencyCode)
	v.Field("invoice_date", ext.InvoiceDate, common.ISODate)
	v.Field("grand_total", ext.GrandTotal, common.DecimalString)
	if err := v.Error(); err != nil {
		return nil, err
	}
	return &ext, nil
}
