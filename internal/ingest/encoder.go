package ingest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fintools-ar/invoice-extractor/internal/entity"
)

// IngestFunction is the domain ingestion procedure invoked inside the
// generic SQL-execution RPC.
const IngestFunction = "public.fn_ingest_invoice_payload"

// ingestCallTemplate decodes the base64 payload server-side and casts it to
// jsonb before calling the ingestion function. The base64 alphabet contains
// no characters that can break out of the quoted literal, so no extraction
// field value is ever interpolated into the query body.
const ingestCallTemplate = "select %s(convert_from(decode('%s', 'base64'), 'UTF8')::jsonb) as result;"

// IngestPayload is the envelope handed to the ingestion procedure. The
// quality verdict rides along so the backend can route needs_review items
// to the human review queue.
type IngestPayload struct {
	Extraction *entity.CanonicalInvoiceExtraction `json:"extraction"`
	Quality    *entity.QualityVerdict             `json:"quality,omitempty"`
}

// BuildIngestCall serializes the payload to JSON, base64-encodes it, and
// embeds it in the ingestion call. Deterministic; no I/O.
func BuildIngestCall(payload IngestPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode ingest payload: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return fmt.Sprintf(ingestCallTemplate, IngestFunction, encoded), nil
}
