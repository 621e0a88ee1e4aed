package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsAllErrors(t *testing.T) {
	v := NewValidator()
	v.Field("document_id", "nope", Required, UUID)
	v.Field("currency", "pesos", CurrencyCode)
	v.Field("grand_total", "12,50", DecimalString)

	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 3)

	err := v.Error()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "document_id")
	assert.Contains(t, err.Error(), "currency")
	assert.Contains(t, err.Error(), "grand_total")
}

func TestValidationRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  ValidationRule
		value any
		valid bool
	}{
		{"required ok", Required, "x", true},
		{"required empty", Required, "", false},
		{"required whitespace", Required, "  ", false},
		{"required nil", Required, nil, false},
		{"uuid ok", UUID, "7b44b4a1-95a5-4f0e-9a3b-7a0f4a1a2b3c", true},
		{"uuid bad", UUID, "not-a-uuid", false},
		{"currency ok", CurrencyCode, "ARS", true},
		{"currency lowercase", CurrencyCode, "ars", false},
		{"currency too long", CurrencyCode, "PESO", false},
		{"iso date ok", ISODate, "2026-08-01", true},
		{"iso date slashes", ISODate, "01/08/2026", false},
		{"decimal ok", DecimalString, "121.50", true},
		{"decimal negative", DecimalString, "-3.25", true},
		{"decimal comma", DecimalString, "12,50", false},
		{"decimal words", DecimalString, "hundred", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule("field", tt.value)
			if tt.valid {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
			}
		})
	}
}
