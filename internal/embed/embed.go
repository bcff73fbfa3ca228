// Package embed maps free text to fixed-dimension dense vectors.
//
// The provider is loaded once at process start and shared read-only across
// requests; implementations must be safe for concurrent use and deterministic
// for a fixed model version.
package embed

import "context"

// Provider generates vector embeddings from text.
type Provider interface {
	// EmbedText returns a vector embedding for the given text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int

	// ModelName identifies the underlying model version.
	ModelName() string
}
