package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fintools-ar/invoice-extractor/internal/common"
)

// defaultMIMEType is assumed when the transport does not name one; source
// documents are PDFs unless stated otherwise.
const defaultMIMEType = "application/pdf"

// Document is a downloaded source document.
type Document struct {
	Bytes    []byte
	MIMEType string
}

// Client downloads source documents from the cloud drive by file id, using a
// read-only service-account bearer token. Retry/backoff policy is the
// caller's concern; each Download is a single shot.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewClient(baseURL, accessToken string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// Download fetches the raw bytes of a file. A non-2xx status or an empty
// body is a download failure; the pipeline never feeds empty or partial
// documents to an extractor.
func (c *Client) Download(ctx context.Context, fileID string) (*Document, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, common.NewAppError("DOWNLOAD_ERROR", "file id is required", common.ErrInvalidInput)
	}

	reqID := uuid.New().String()
	start := time.Now()
	fileURL := fmt.Sprintf("%s/files/%s?alt=media", c.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		c.logger.Error("drive.download.build_request_error", "req_id", reqID, "file_id", fileID, "error", err)
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	c.logger.Info("drive.download.request", "req_id", reqID, "file_id", fileID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("drive.download.send_error", "req_id", reqID, "file_id", fileID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%w: %v", common.ErrDownload, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("drive.download.body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", common.ErrDownload, err)
	}

	c.logger.Info("drive.download.response",
		"req_id", reqID,
		"file_id", fileID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: non-2xx status: %d", common.ErrDownload, resp.StatusCode)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", common.ErrDownload)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	return &Document{Bytes: raw, MIMEType: mimeType}, nil
}
