// Package builder runs the offline index build: it embeds every catalog
// listing and assembles the artifact the serving process loads.
package builder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/disha-labs/intern-recommender/internal/artifact"
	"github.com/disha-labs/intern-recommender/internal/catalog"
	"github.com/disha-labs/intern-recommender/internal/embed"
)

// Builder embeds catalog listings with the configured provider.
type Builder struct {
	provider embed.Provider
	logger   *zap.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// New creates a Builder around the given embedding provider.
func New(provider embed.Provider, logger *zap.Logger) *Builder {
	return &Builder{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Build embeds every listing and returns a validated artifact. A listing that
// fails to embed aborts the build: a partial index would silently hide
// listings from every candidate.
func (b *Builder) Build(ctx context.Context, listings *catalog.Internships) (*artifact.Artifact, error) {
	if listings == nil || listings.Len() == 0 {
		return nil, fmt.Errorf("no listings to index")
	}

	dimension := b.provider.Dimension()
	b.logger.Info("building index",
		zap.Int("listings", listings.Len()),
		zap.String("model", b.provider.ModelName()),
		zap.Int("dimension", dimension),
	)

	a := &artifact.Artifact{
		ModelName: b.provider.ModelName(),
		Dimension: dimension,
		BuiltAt:   b.now().UTC(),
	}

	for i, listing := range listings.Items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build canceled after %d listings: %w", i, err)
		}

		text := embed.ListingText(listing)
		vec, err := b.provider.EmbedText(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed listing %s: %w", listing.ID, err)
		}
		if len(vec) != dimension {
			return nil, fmt.Errorf("embed listing %s: dimension %d, want %d", listing.ID, len(vec), dimension)
		}

		a.IDs = append(a.IDs, listing.ID)
		a.Vectors = append(a.Vectors, vec)
		a.Listings = append(a.Listings, listing)

		if (i+1)%50 == 0 {
			b.logger.Info("embedding progress", zap.Int("done", i+1), zap.Int("total", listings.Len()))
		}
	}

	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("built artifact is invalid: %w", err)
	}

	b.logger.Info("index built", zap.Int("vectors", len(a.Vectors)))

	return a, nil
}
