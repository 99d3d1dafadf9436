package analyzer

import "math"

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is empty, zero or the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MatchScore converts a similarity into a percentage rounded to two decimals and clamped to 0..100
func MatchScore(similarity float64) float64 {
	if math.IsNaN(similarity) {
		return 0
	}
	score := math.Round(similarity*100*100) / 100
	return math.Min(100, math.Max(0, score))
}
