package auth

import (
	"crypto/subtle"
	"strings"
)

// TokenGate authenticates service-to-service calls against a single
// process-wide shared secret. It is distinct from any end-user session
// authentication living in front of this service.
type TokenGate struct {
	expected []byte
}

// NewTokenGate configures the gate with the expected secret. An empty secret
// yields a gate that rejects everything.
func NewTokenGate(expected string) *TokenGate {
	return &TokenGate{expected: []byte(expected)}
}

// Verify extracts a bearer token from the Authorization header value and
// compares it against the configured secret in constant time. It is a pure
// predicate: missing/malformed credentials return false, never an error.
func (g *TokenGate) Verify(authorizationHeader string) bool {
	token := bearerToken(authorizationHeader)
	if token == "" || len(g.expected) == 0 {
		return false
	}
	return constantTimeEqual([]byte(token), g.expected)
}

// bearerToken returns the token portion of a "Bearer <token>" header, or ""
// when the scheme is wrong or the token is absent. Scheme matching is
// case-insensitive.
func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return ""
	}
	if !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}

// constantTimeEqual compares a and b without leaking where they diverge.
// Both buffers are zero-padded to the same length before comparison; the
// padding alone must not cause a false accept, so the original lengths must
// also match.
func constantTimeEqual(a, b []byte) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	pa := make([]byte, n)
	pb := make([]byte, n)
	copy(pa, a)
	copy(pb, b)

	contentEq := subtle.ConstantTimeCompare(pa, pb)
	lengthEq := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	return contentEq&lengthEq == 1
}
