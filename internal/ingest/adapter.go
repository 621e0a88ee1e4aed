package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fintools-ar/invoice-extractor/internal/common"
)

// SQLExecutor is the single RPC-invocation capability this adapter needs
// from the backend. The production implementation lives in the repository
// package; tests inject a stub.
type SQLExecutor interface {
	// ExecuteSQL runs the remote execute_sql procedure with the given query
	// and returns the "result" column of each returned row.
	ExecuteSQL(ctx context.Context, sqlQuery string) ([]json.RawMessage, error)
}

// Adapter is the only write path from this service to persistent storage.
// It performs no client-side retries or deduplication; the remote ingestion
// procedure owns idempotency (upsert on document_id + supplier).
type Adapter struct {
	exec   SQLExecutor
	logger *slog.Logger
}

func NewAdapter(exec SQLExecutor, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{exec: exec, logger: logger}
}

// Persist ingests the payload through the remote procedure, exactly one
// external call per invocation. Backend errors come back wrapped in
// common.ErrPersistence with the upstream detail preserved. Zero result
// rows is a valid (if unusual) success and yields a nil result.
func (a *Adapter) Persist(ctx context.Context, payload IngestPayload) (json.RawMessage, error) {
	docID := ""
	if payload.Extraction != nil {
		docID = payload.Extraction.DocumentID
	}

	call, err := BuildIngestCall(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	rows, err := a.exec.ExecuteSQL(ctx, call)
	if err != nil {
		a.logger.Error("ingest.persist.failed",
			"document_id", docID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	var result json.RawMessage
	if len(rows) > 0 {
		result = rows[0]
	}
	a.logger.Info("ingest.persist.ok",
		"document_id", docID,
		"rows", len(rows),
	)
	return result, nil
}
