package auth

import (
	"log/slog"
	"net/http"

	"github.com/fintools-ar/invoice-extractor/internal/common"
)

// RequireServiceToken rejects requests whose Authorization header does not
// carry the expected service token. Authorization failures are resolved here,
// before any side effect. onUnauthorized, if non-nil, is invoked once per
// rejection so callers can record the outcome.
func RequireServiceToken(gate *TokenGate, logger *slog.Logger, onUnauthorized func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Verify(r.Header.Get("Authorization")) {
				if onUnauthorized != nil {
					onUnauthorized()
				}
				logger.Warn("auth.rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", common.ErrUnauthorized,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, err := w.Write([]byte(`{"error":"unauthorized"}`))
				if err != nil {
					logger.Error("auth.write_response_failed", "error", err)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
