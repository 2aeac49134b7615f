package randid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Length(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 8, 32} {
		got := Generate(n)
		if n <= 0 {
			assert.Empty(t, got, "Generate(%d)", n)
			continue
		}
		assert.Len(t, got, n, "Generate(%d)", n)
	}
}

func TestGenerate_Alphabet(t *testing.T) {
	for range 50 {
		id := Generate(16)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in %q", r, id)
		}
	}
}

func TestGenerate_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 200)
	for range 200 {
		seen[Generate(8)] = struct{}{}
	}
	// 36^8 values; a collision among 200 draws is vanishingly rare
	assert.GreaterOrEqual(t, len(seen), 199)
}
