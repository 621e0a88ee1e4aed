package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fintools-ar/invoice-extractor/internal/entity"
	"github.com/fintools-ar/invoice-extractor/internal/ingest"
	"github.com/fintools-ar/invoice-extractor/internal/quality"
	"github.com/fintools-ar/invoice-extractor/internal/schema"
)

// Processor coordinates one ingestion invocation: structural admission,
// quality evaluation, then persistence. Steps are strictly sequential and
// each invocation is independent; no state survives the call.
type Processor struct {
	logger    *slog.Logger
	evaluator *quality.Evaluator
	adapter   *ingest.Adapter
}

func NewProcessor(logger *slog.Logger, evaluator *quality.Evaluator, adapter *ingest.Adapter) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, evaluator: evaluator, adapter: adapter}
}

// IngestResult is what the caller gets back from a successful invocation.
type IngestResult struct {
	DocumentID string
	Verdict    entity.QualityVerdict
	Result     json.RawMessage
}

// IngestExtraction admits raw canonical-extraction JSON, scores it, and
// persists it. A failing verdict is not an error: the extraction is persisted
// anyway, flagged needs_review so downstream systems route it to a human.
func (p *Processor) IngestExtraction(ctx context.Context, raw []byte) (*IngestResult, error) {
	ext, err := schema.AdmitExtraction(raw)
	if err != nil {
		p.logger.Error("pipeline.admit.failed", "error", err)
		return nil, err
	}

	verdict := p.evaluator.Evaluate(ext)
	p.logger.Info("pipeline.evaluate.ok",
		"document_id", ext.DocumentID,
		"needs_review", verdict.NeedsReview,
		"score", verdict.Score,
		"reasons", verdict.Reasons,
	)

	result, err := p.adapter.Persist(ctx, ingest.IngestPayload{
		Extraction: ext,
		Quality:    &verdict,
	})
	if err != nil {
		p.logger.Error("pipeline.persist.failed", "document_id", ext.DocumentID, "error", err)
		return nil, err
	}
	p.logger.Info("pipeline.persist.ok", "document_id", ext.DocumentID)

	return &IngestResult{
		DocumentID: ext.DocumentID,
		Verdict:    verdict,
		Result:     result,
	}, nil
}
