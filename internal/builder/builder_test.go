package builder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/disha-labs/intern-recommender/internal/catalog"
)

type stubProvider struct {
	dimension int
	failOn    string
	calls     []string
}

func (s *stubProvider) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.calls = append(s.calls, text)
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return nil, errors.New("embedding backend unavailable")
	}
	vec := make([]float32, s.dimension)
	vec[0] = float32(len(text))
	return vec, nil
}

func (s *stubProvider) Dimension() int { return s.dimension }

func (s *stubProvider) ModelName() string { return "stub-model" }

func testListings() *catalog.Internships {
	return &catalog.Internships{Items: []*catalog.Internship{
		{ID: "INT001", Title: "Data Analyst Intern", Organization: "StatWorks", Description: "Analyze survey data"},
		{ID: "INT002", Title: "Frontend Intern", Organization: "WebShop", Description: "Build UI components"},
	}}
}

func TestBuildProducesParallelArrays(t *testing.T) {
	provider := &stubProvider{dimension: 4}
	b := New(provider, zap.NewNop())

	a, err := b.Build(context.Background(), testListings())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(a.IDs) != 2 || len(a.Vectors) != 2 || len(a.Listings) != 2 {
		t.Fatalf("artifact arrays = (%d, %d, %d), want (2, 2, 2)", len(a.IDs), len(a.Vectors), len(a.Listings))
	}
	if a.ModelName != "stub-model" || a.Dimension != 4 {
		t.Errorf("artifact header = (%s, %d), want (stub-model, 4)", a.ModelName, a.Dimension)
	}
	if a.IDs[0] != "INT001" || a.Listings[0].ID != "INT001" {
		t.Errorf("artifact order does not follow catalog order: %v", a.IDs)
	}
	if len(provider.calls) != 2 {
		t.Errorf("provider called %d times, want 2", len(provider.calls))
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	b := New(&stubProvider{dimension: 4}, zap.NewNop())

	first, err := b.Build(context.Background(), testListings())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	second, err := b.Build(context.Background(), testListings())
	if err != nil {
		t.Fatalf("Build() error on rebuild: %v", err)
	}

	firstIndex, err := first.BuildIndex()
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}
	secondIndex, err := second.BuildIndex()
	if err != nil {
		t.Fatalf("BuildIndex() error on rebuild: %v", err)
	}

	query := []float32{1, 0, 0, 0}
	firstHits := firstIndex.Search(query, 10)
	secondHits := secondIndex.Search(query, 10)

	if len(firstHits) != len(secondHits) {
		t.Fatalf("rebuild returned %d hits, want %d", len(secondHits), len(firstHits))
	}
	for i := range firstHits {
		if firstHits[i].Ordinal != secondHits[i].Ordinal || firstHits[i].Score != secondHits[i].Score {
			t.Errorf("hit %d differs after rebuild: %v vs %v", i, firstHits[i], secondHits[i])
		}
		if first.IDs[firstHits[i].Ordinal] != second.IDs[secondHits[i].Ordinal] {
			t.Errorf("hit %d maps to different listings: %s vs %s",
				i, first.IDs[firstHits[i].Ordinal], second.IDs[secondHits[i].Ordinal])
		}
	}
}

func TestBuildFailsOnEmbeddingError(t *testing.T) {
	provider := &stubProvider{dimension: 4, failOn: "Frontend"}
	b := New(provider, zap.NewNop())

	if _, err := b.Build(context.Background(), testListings()); err == nil {
		t.Fatal("Build() succeeded despite embedding failure, want error")
	}
}

func TestBuildFailsOnEmptyCatalog(t *testing.T) {
	b := New(&stubProvider{dimension: 4}, zap.NewNop())

	if _, err := b.Build(context.Background(), &catalog.Internships{}); err == nil {
		t.Fatal("Build() with empty catalog succeeded, want error")
	}
}

func TestBuildStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(&stubProvider{dimension: 4}, zap.NewNop())
	if _, err := b.Build(ctx, testListings()); err == nil {
		t.Fatal("Build() with canceled context succeeded, want error")
	}
}
