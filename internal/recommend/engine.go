package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/disha-labs/intern-recommender/internal/artifact"
	"github.com/disha-labs/intern-recommender/internal/catalog"
	"github.com/disha-labs/intern-recommender/internal/embed"
	"github.com/disha-labs/intern-recommender/internal/vecindex"
)

// Engine serves ranked internship recommendations for candidate profiles.
// It is constructed once from an immutable artifact and is safe for
// concurrent use: requests never mutate engine state.
type Engine struct {
	artifact    *artifact.Artifact
	index       vecindex.Index
	provider    embed.Provider
	config      Config
	matcher     SkillMatcher
	paraphraser *Paraphraser
	logger      *zap.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithSkillMatcher overrides the default skill matching strategy.
func WithSkillMatcher(m SkillMatcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithParaphraser enables explanation paraphrasing.
func WithParaphraser(p *Paraphraser) Option {
	return func(e *Engine) { e.paraphraser = p }
}

func withClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine from a loaded artifact. The vector index is
// reconstructed from the artifact's embeddings; the provider embeds incoming
// profiles with the same model the artifact was built with.
func NewEngine(a *artifact.Artifact, provider embed.Provider, cfg Config, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if a == nil {
		return nil, fmt.Errorf("artifact is required: %w", ErrUnavailable)
	}
	if provider == nil {
		return nil, fmt.Errorf("embedding provider is required: %w", ErrUnavailable)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}

	if provider.Dimension() != a.Dimension {
		return nil, fmt.Errorf("provider dimension %d does not match artifact dimension %d",
			provider.Dimension(), a.Dimension)
	}
	if provider.ModelName() != a.ModelName {
		logger.Warn("embedding model differs from the one the artifact was built with",
			zap.String("artifact_model", a.ModelName),
			zap.String("provider_model", provider.ModelName()),
		)
	}

	index, err := a.BuildIndex()
	if err != nil {
		return nil, fmt.Errorf("build vector index: %w", err)
	}

	e := &Engine{
		artifact: a,
		index:    index,
		provider: provider,
		config:   cfg,
		matcher:  NewFuzzyMatcher(),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	logger.Info("recommendation engine ready",
		zap.Int("listings", index.Len()),
		zap.String("model", a.ModelName),
		zap.Int("dimension", a.Dimension),
	)

	return e, nil
}

// Stats describes the loaded artifact for the /stats endpoint.
type Stats struct {
	TotalListings  int       `json:"total_internships"`
	EmbeddingModel string    `json:"embedding_model"`
	Dimension      int       `json:"embedding_dimension"`
	IndexSize      int       `json:"index_size"`
	BuiltAt        time.Time `json:"index_built_at"`
}

func (e *Engine) Stats() Stats {
	return Stats{
		TotalListings:  len(e.artifact.Listings),
		EmbeddingModel: e.artifact.ModelName,
		Dimension:      e.artifact.Dimension,
		IndexSize:      e.index.Len(),
		BuiltAt:        e.artifact.BuiltAt,
	}
}

// Config returns the scoring configuration the engine runs with.
func (e *Engine) Config() Config {
	return e.config
}

// Recommend validates the profile, retrieves semantically similar listings
// and reranks them with the weighted signal blend. Identical inputs against
// the same artifact produce identical output ordering.
func (e *Engine) Recommend(ctx context.Context, profile *CandidateProfile) ([]*Recommendation, error) {
	if profile == nil {
		return nil, &ValidationError{Fields: map[string]string{"profile": "is required"}}
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	vec, err := e.provider.EmbedText(ctx, profile.Text())
	if err != nil {
		return nil, fmt.Errorf("embed candidate profile: %w: %v", ErrUnavailable, err)
	}

	hits := e.index.Search(vec, e.config.TopKRetrieval)
	now := e.now()

	candidateSkills := profile.normalizedSkills()
	scored := make([]*Recommendation, 0, len(hits))
	for _, hit := range hits {
		listing := e.artifact.Listings[hit.Ordinal]
		rec := e.score(profile, candidateSkills, listing, float64(hit.Score), now)
		if rec.Score < e.config.MinScoreThreshold {
			continue
		}
		scored = append(scored, rec)
	}

	sortRecommendations(scored)

	if len(scored) > e.config.MaxResults {
		scored = scored[:e.config.MaxResults]
	}

	if e.paraphraser.Enabled() {
		e.paraphraser.Rewrite(ctx, scored)
	}

	e.logger.Debug("recommendation request served",
		zap.Int("retrieved", len(hits)),
		zap.Int("returned", len(scored)),
	)

	return scored, nil
}

func (e *Engine) score(profile *CandidateProfile, candidateSkills []string,
	listing *catalog.Internship, similarity float64, now time.Time) *Recommendation {

	skillScore, skillMatches := skillOverlap(e.matcher, candidateSkills, listing.PreferredSkills)
	locationScore, locationTier := locationMatch(profile.PreferredLocations, profile.RemoteOK, listing)

	raw := map[string]float64{
		SignalSimilarity:    clampUnit(similarity),
		SignalSkillOverlap:  skillScore,
		SignalQualification: qualificationFit(profile.EducationLevel, listing.EligibilityMinQualification),
		SignalLocation:      locationScore,
		SignalStipend:       stipendMatch(profile.StipendPref, listing.Stipend),
		SignalRecency:       recencyScore(listing, now),
	}

	var score float64
	for _, name := range signalOrder {
		score += raw[name] * e.config.Weights[name]
	}

	breakdown := breakdownFor(raw, e.config.Weights, score)
	reasons := matchReasons(profile, listing, raw, skillMatches, locationTier)

	return &Recommendation{
		InternshipID:     listing.ID,
		Title:            listing.Title,
		Organization:     listing.Organization,
		SectorTags:       listing.SectorTags,
		Location:         listing.Location,
		RemoteAllowed:    listing.RemoteAllowed,
		Stipend:          listing.Stipend,
		DurationWeeks:    listing.DurationWeeks,
		PostedDate:       listing.PostedDate,
		URL:              listing.URL,
		Score:            round4(score),
		MatchReasons:     reasons,
		ExplainText:      explainText(listing, breakdown, reasons),
		ScoringBreakdown: breakdown,
	}
}

// sortRecommendations orders by score descending, then newer posted_date,
// then id ascending, so equal inputs always rank identically.
func sortRecommendations(recs []*Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].PostedDate != recs[j].PostedDate {
			return recs[i].PostedDate > recs[j].PostedDate
		}
		return recs[i].InternshipID < recs[j].InternshipID
	})
}
