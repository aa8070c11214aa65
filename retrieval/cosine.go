package retrieval

import "math"

// Cosine returns the cosine similarity of a and b.
// ok is false when the vectors differ in length, are empty, have zero norm
// or produce a non-finite result.
func Cosine(a, b []float32) (score float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	return cosineFrom(dot, na, nb)
}

func cosineFrom(dot, na, nb float64) (float64, bool) {
	if na == 0 || nb == 0 {
		return 0, false
	}
	score := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	// Rounding can push parallel vectors just outside the range
	return math.Max(-1, math.Min(1, score)), true
}

func squaredNorm(v []float32) float64 {
	var n float64
	for _, x := range v {
		n += float64(x) * float64(x)
	}
	return n
}

func dot(a, b []float32) float64 {
	var d float64
	for i := range a {
		d += float64(a[i]) * float64(b[i])
	}
	return d
}
