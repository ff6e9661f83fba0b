package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateAuthorized(t *testing.T) {
	gate := NewGate(testKey)

	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"exact match", testKey, true},
		{"empty secret", "", false},
		{"wrong secret", "not-the-key", false},
		{"case sensitive", "hi0g2yf9rs8dm5", false},
		{"no trimming", " " + testKey, false},
		{"trailing space", testKey + " ", false},
		{"prefix only", testKey[:4], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, gate.Authorized(tt.secret))
		})
	}
}

func TestGateEmptyConfiguredKeyRejectsEmptySecret(t *testing.T) {
	// A relay started without a key must not treat "" as a valid credential.
	gate := NewGate("")
	require.False(t, gate.Authorized(""))
}
