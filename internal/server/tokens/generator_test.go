package tokens

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexGenerator(t *testing.T) {
	g := NewHexGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := g.Generate()
		require.NoError(t, err)
		assert.Len(t, tok, 64)

		raw, err := hex.DecodeString(tok)
		require.NoError(t, err)
		assert.Len(t, raw, 32)

		_, dup := seen[tok]
		require.False(t, dup, "duplicate token")
		seen[tok] = struct{}{}
	}
}

func TestGeneratorFunc(t *testing.T) {
	g := GeneratorFunc(func() (string, error) { return "fixed", nil })
	tok, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "fixed", tok)
}
