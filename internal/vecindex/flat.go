package vecindex

import (
	"fmt"
	"sort"
)

// flat is an exact inner-product index over L2-normalized vectors. Inner
// product over unit vectors equals cosine similarity, which keeps retrieval
// answers reproducible across rebuilds from the same catalog.
type flat struct {
	dimension int
	vectors   [][]float32
}

// NewFlat creates an empty exact index for vectors of the given dimension.
func NewFlat(dimension int) (Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid index dimension: %d", dimension)
	}
	return &flat{dimension: dimension}, nil
}

func (f *flat) Add(vec []float32) error {
	if len(vec) != f.dimension {
		return fmt.Errorf("vector dimension mismatch: want %d, got %d", f.dimension, len(vec))
	}
	f.vectors = append(f.vectors, Normalize(vec))
	return nil
}

func (f *flat) Search(vec []float32, k int) []Hit {
	if k <= 0 || len(f.vectors) == 0 || len(vec) != f.dimension {
		return nil
	}

	query := Normalize(vec)
	hits := make([]Hit, 0, len(f.vectors))
	for ordinal, stored := range f.vectors {
		hits = append(hits, Hit{Ordinal: ordinal, Score: dot(query, stored)})
	}

	// Ties break on insertion order so two searches over the same index
	// always agree.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Ordinal < hits[j].Ordinal
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}

func (f *flat) Len() int { return len(f.vectors) }

func (f *flat) Dimension() int { return f.dimension }

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
