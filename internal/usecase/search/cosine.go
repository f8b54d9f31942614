package search

import "math"

// CosineSimilarity returns dot(a,b) / (|a|*|b|) clamped to [-1, 1].
// Zero-norm vectors, empty vectors and length mismatches yield exactly 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	switch {
	case math.IsNaN(s) || math.IsInf(s, 0):
		return 0
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}
