package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
		ok   bool
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1, true},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1, true},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1, true},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0, true},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0, false},
		{"zero norm", []float32{0, 0}, []float32{1, 0}, 0, false},
		{"empty", nil, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Cosine(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCosine_SymmetricAndBounded(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{-0.5, 0.25, 1},
		{3, -7, 0.001},
		{1e-3, 1e-3, 1e-3},
		{1e6, -1e6, 2},
	}

	for i, a := range vectors {
		for j, b := range vectors {
			ab, okAB := Cosine(a, b)
			ba, okBA := Cosine(b, a)
			assert.True(t, okAB)
			assert.True(t, okBA)
			assert.InDelta(t, ab, ba, 1e-12, "pair %d,%d", i, j)
			assert.GreaterOrEqual(t, ab, -1.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}
}
