// Package vecindex provides the vector index the retriever queries.
//
// The interface isolates the scoring logic from the concrete index structure,
// so an approximate implementation can replace the exact one without touching
// the engine.
package vecindex

import "math"

// Hit is one search result: the ordinal position of the vector in insertion
// order and its cosine similarity with the query.
type Hit struct {
	Ordinal int
	Score   float32
}

// Index answers nearest-neighbour queries over a fixed set of vectors.
// Implementations are append-only during build and read-only afterwards.
type Index interface {
	// Add appends a vector. All vectors must share the index dimension.
	Add(vec []float32) error

	// Search returns up to k hits ordered by descending similarity.
	// Fewer than k hits are returned when the index is smaller than k.
	Search(vec []float32, k int) []Hit

	Len() int
	Dimension() int
}

// Normalize returns an L2-normalized copy of vec. The zero vector is
// returned unchanged.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		out := make([]float32, len(vec))
		copy(out, vec)
		return out
	}

	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
