package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"io"
	"log/slog"
)

func TestVerify(t *testing.T) {
	gate := NewTokenGate("s3cret-token")

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"exact match", "Bearer s3cret-token", true},
		{"scheme is case-insensitive", "bearer s3cret-token", true},
		{"wrong token same length", "Bearer x3cret-token", false},
		{"wrong token shorter", "Bearer s3cret", false},
		{"wrong token longer", "Bearer s3cret-token-and-more", false},
		{"prefix of secret must not pass", "Bearer s3cret-toke", false},
		{"empty header", "", false},
		{"scheme only", "Bearer", false},
		{"scheme with empty token", "Bearer ", false},
		{"wrong scheme", "Basic s3cret-token", false},
		{"extra parts", "Bearer s3cret-token extra", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Verify(tt.header))
		})
	}
}

func TestVerifyEmptySecretRejectsEverything(t *testing.T) {
	gate := NewTokenGate("")
	assert.False(t, gate.Verify("Bearer "))
	assert.False(t, gate.Verify("Bearer anything"))
	assert.False(t, gate.Verify(""))
}

func TestRequireServiceToken(t *testing.T) {
	gate := NewTokenGate("s3cret-token")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rejections := 0
	handler := RequireServiceToken(gate, logger, func() { rejections++ })(next)

	t.Run("authorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/extractions", nil)
		req.Header.Set("Authorization", "Bearer s3cret-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, 0, rejections)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/extractions", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
		assert.Equal(t, 1, rejections)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/extractions", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 2, rejections)
	})
}

func TestRequireServiceTokenNilCallback(t *testing.T) {
	gate := NewTokenGate("s3cret-token")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireServiceToken(gate, logger, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/extractions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
