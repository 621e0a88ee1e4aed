package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fintools-ar/invoice-extractor/internal/auth"
	"github.com/fintools-ar/invoice-extractor/internal/common"
	"github.com/fintools-ar/invoice-extractor/internal/drive"
	"github.com/fintools-ar/invoice-extractor/internal/export"
	"github.com/fintools-ar/invoice-extractor/internal/pipeline"
)

// maxRequestBody caps extraction payloads; raw_extraction blobs can be large
// but a canonical extraction should never approach this.
const maxRequestBody = 8 << 20

// Service is the thin HTTP layer over the ingestion pipeline. Transport
// concerns only; the pipeline owns the semantics.
type Service struct {
	processor *pipeline.Processor
	exporter  *export.Service
	documents *drive.Client
	metrics   *Metrics
	logger    *slog.Logger
}

func NewService(proc *pipeline.Processor, exporter *export.Service, documents *drive.Client, metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		processor: proc,
		exporter:  exporter,
		documents: documents,
		metrics:   metrics,
		logger:    logger,
	}
}

// Routes mounts the public surface. Everything except liveness and metrics
// sits behind the service-token gate.
func (s *Service) Routes(gate *auth.TokenGate) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireServiceToken(gate, s.logger, func() {
			s.metrics.RecordIngestion(OutcomeUnauthorized)
		}))
		r.Post("/v1/extractions", s.handleIngest)
		r.Post("/v1/extractions/export", s.handleExport)
		r.Get("/v1/documents/{fileID}", s.handleDocument)
	})
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "invoice-extractor",
		"version": "v1",
	})
}

// handleIngest admits, evaluates, and persists one canonical extraction.
func (s *Service) handleIngest(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}

	res, err := s.processor.IngestExtraction(r.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			s.metrics.RecordIngestion(OutcomeValidationFailed)
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "validation_failed",
				"message": err.Error(),
			})
		case errors.Is(err, common.ErrPersistence):
			s.metrics.RecordIngestion(OutcomePersistenceFailed)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   "persistence_failed",
				"message": err.Error(),
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal"})
		}
		return
	}

	s.metrics.EvaluationScores.Observe(res.Verdict.Score)
	if res.Verdict.NeedsReview {
		s.metrics.RecordIngestion(OutcomeNeedsReview)
	} else {
		s.metrics.RecordIngestion(OutcomeAccepted)
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"document_id":  res.DocumentID,
		"needs_review": res.Verdict.NeedsReview,
		"score":        res.Verdict.Score,
		"reasons":      res.Verdict.Reasons,
		"result":       res.Result,
	})
}

// handleExport renders a batch of evaluated extractions into an XLSX review
// sheet. Stateless: the caller supplies the batch.
func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	var items []export.ReviewItem
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&items); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}

	xlsx, err := s.exporter.ReviewSheetXLSX(items)
	if err != nil {
		s.logger.Error("server.export.failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="extraction-review.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(xlsx); err != nil {
		s.logger.Error("server.export.write_failed", "error", err)
	}
}

// handleDocument is an operator passthrough to the document provider, used
// to verify source documents against their extractions.
func (s *Service) handleDocument(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	doc, err := s.documents.Download(r.Context(), fileID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		case errors.Is(err, common.ErrDownload):
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   "download_failed",
				"message": err.Error(),
			})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal"})
		}
		return
	}

	w.Header().Set("Content-Type", doc.MIMEType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Bytes); err != nil {
		s.logger.Error("server.document.write_failed", "file_id", fileID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
