// Package artifact persists the index artifact set produced by the offline
// build: listing metadata, precomputed embeddings and enough information to
// reconstruct the vector index. The artifact is immutable for the lifetime of
// a serving process and replaced wholesale by rebuilding.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disha-labs/intern-recommender/internal/catalog"
	"github.com/disha-labs/intern-recommender/internal/vecindex"
)

// Artifact is the on-disk index artifact set. IDs, Vectors and Listings are
// parallel arrays in insertion order.
type Artifact struct {
	ModelName string                `json:"model_name"`
	Dimension int                   `json:"dimension"`
	BuiltAt   time.Time             `json:"built_at"`
	IDs       []string              `json:"ids"`
	Vectors   [][]float32           `json:"vectors"`
	Listings  []*catalog.Internship `json:"listings"`
}

// Validate checks the parallel-array and dimension invariants.
func (a *Artifact) Validate() error {
	if a.Dimension <= 0 {
		return fmt.Errorf("invalid artifact dimension: %d", a.Dimension)
	}
	if len(a.IDs) != len(a.Vectors) || len(a.IDs) != len(a.Listings) {
		return fmt.Errorf("artifact arrays out of sync: %d ids, %d vectors, %d listings",
			len(a.IDs), len(a.Vectors), len(a.Listings))
	}

	seen := make(map[string]bool, len(a.IDs))
	for i, id := range a.IDs {
		if id == "" || a.Listings[i] == nil || a.Listings[i].ID != id {
			return fmt.Errorf("artifact listing %d does not match id %q", i, id)
		}
		if seen[id] {
			return fmt.Errorf("duplicate internship id in artifact: %s", id)
		}
		seen[id] = true
		if len(a.Vectors[i]) != a.Dimension {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(a.Vectors[i]), a.Dimension)
		}
	}

	return nil
}

// BuildIndex constructs a fresh read-only vector index from the persisted
// embeddings.
func (a *Artifact) BuildIndex() (vecindex.Index, error) {
	idx, err := vecindex.NewFlat(a.Dimension)
	if err != nil {
		return nil, err
	}
	for i, vec := range a.Vectors {
		if err := idx.Add(vec); err != nil {
			return nil, fmt.Errorf("indexing vector %d (%s): %w", i, a.IDs[i], err)
		}
	}
	return idx, nil
}

// Save writes the artifact to path atomically: the payload lands in a
// temporary file first and is renamed over the target, so a serving process
// loading the old artifact never observes a partial write.
func Save(path string, a *Artifact) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid artifact: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(a); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace artifact: %w", err)
	}

	return nil
}

// Load reads and validates the artifact at path.
func Load(path string) (*Artifact, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	var a Artifact
	if err := json.NewDecoder(file).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	return &a, nil
}
