package ingest

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintools-ar/invoice-extractor/internal/entity"
)

func samplePayload() IngestPayload {
	return IngestPayload{
		Extraction: &entity.CanonicalInvoiceExtraction{
			Supplier:         "O'Malley & Sons; DROP TABLE invoices;--",
			ClientID:         "client-42",
			DocumentID:       "7b44b4a1-95a5-4f0e-9a3b-7a0f4a1a2b3c",
			InvoiceNumber:    "0001-00001234",
			InvoiceDate:      "2026-08-01",
			Currency:         "ARS",
			Subtotal:         "100",
			IVATotal:         "21",
			PerceptionsTotal: "0",
			GrandTotal:       "121",
			ExtractorPrimary: "docai",
		},
		Quality: &entity.QualityVerdict{
			NeedsReview: true,
			Score:       0.8,
			Checks:      map[string]bool{"required_fields_ok": true},
			Reasons:     []string{"totals_consistency_failed"},
		},
	}
}

var base64Segment = regexp.MustCompile(`decode\('([A-Za-z0-9+/=]*)', 'base64'\)`)

func TestBuildIngestCall(t *testing.T) {
	call, err := BuildIngestCall(samplePayload())
	require.NoError(t, err)

	assert.Contains(t, call, IngestFunction)
	assert.True(t, strings.HasPrefix(call, "select "))
	assert.True(t, strings.HasSuffix(call, ";"))

	// no raw field value may appear in the query body
	assert.NotContains(t, call, "DROP TABLE")
	assert.NotContains(t, call, "O'Malley")
}

func TestBuildIngestCallRoundTrips(t *testing.T) {
	payload := samplePayload()
	call, err := BuildIngestCall(payload)
	require.NoError(t, err)

	m := base64Segment.FindStringSubmatch(call)
	require.Len(t, m, 2, "call must embed exactly the base64 payload")

	raw, err := base64.StdEncoding.DecodeString(m[1])
	require.NoError(t, err)

	var decoded IngestPayload
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, payload.Extraction.DocumentID, decoded.Extraction.DocumentID)
	assert.Equal(t, payload.Extraction.Supplier, decoded.Extraction.Supplier)
	assert.Equal(t, payload.Quality.Reasons, decoded.Quality.Reasons)
	assert.True(t, decoded.Quality.NeedsReview)
}

func TestBuildIngestCallIsDeterministic(t *testing.T) {
	payload := samplePayload()
	first, err := BuildIngestCall(payload)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := BuildIngestCall(payload)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
