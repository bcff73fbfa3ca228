package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/disha-labs/intern-recommender/internal/artifact"
	"github.com/disha-labs/intern-recommender/internal/catalog"
	"github.com/disha-labs/intern-recommender/internal/recommend"
)

type fixedProvider struct {
	vector []float32
}

func (f *fixedProvider) EmbedText(context.Context, string) ([]float32, error) {
	return f.vector, nil
}

func (f *fixedProvider) Dimension() int { return len(f.vector) }

func (f *fixedProvider) ModelName() string { return "stub-model" }

func testEngine(t *testing.T) *recommend.Engine {
	t.Helper()

	a := &artifact.Artifact{
		ModelName: "stub-model",
		Dimension: 2,
		BuiltAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		IDs:       []string{"INT001", "INT002"},
		Vectors:   [][]float32{{1, 0}, {0, 1}},
		Listings: []*catalog.Internship{
			{
				ID: "INT001", Title: "Data Analyst Intern", Organization: "StatWorks",
				PreferredSkills:             []string{"python", "sql"},
				EligibilityMinQualification: "ug",
				PostedDate:                  "2025-06-10",
			},
			{
				ID: "INT002", Title: "Design Intern", Organization: "PixelHouse",
				PreferredSkills:             []string{"figma"},
				EligibilityMinQualification: "ug",
				PostedDate:                  "2025-06-10",
			},
		},
	}

	engine, err := recommend.NewEngine(a, &fixedProvider{vector: []float32{1, 0}}, recommend.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	return engine
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(testEngine(t), zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthDegradedWithoutEngine(t *testing.T) {
	s := New(nil, zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestRecommendReturnsRankedResults(t *testing.T) {
	s := New(testEngine(t), zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodPost, "/recommend", map[string]any{
		"education_level": "ug",
		"skills":          []string{"python", "sql"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success              bool                        `json:"success"`
		Recommendations      []*recommend.Recommendation `json:"recommendations"`
		TotalRecommendations int                         `json:"total_recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, len(resp.Recommendations), resp.TotalRecommendations)
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "INT001", resp.Recommendations[0].InternshipID)
	assert.NotEmpty(t, resp.Recommendations[0].ExplainText)
	assert.NotEmpty(t, resp.Recommendations[0].ScoringBreakdown.ComponentScores)
}

func TestRecommendMissingSkillsIsBadRequest(t *testing.T) {
	s := New(testEngine(t), zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodPost, "/recommend", map[string]any{
		"education_level": "ug",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Fields  map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Fields, "skills")
}

func TestRecommendMalformedBodyIsBadRequest(t *testing.T) {
	s := New(testEngine(t), zap.NewNop(), 0)

	req := httptest.NewRequest(http.MethodPost, "/recommend", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendWithoutEngineIsUnavailable(t *testing.T) {
	s := New(nil, zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodPost, "/recommend", map[string]any{
		"education_level": "ug",
		"skills":          []string{"python"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecommendTestEndpoint(t *testing.T) {
	s := New(testEngine(t), zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodGet, "/recommend/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestStats(t *testing.T) {
	s := New(testEngine(t), zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Stats   struct {
			TotalListings int    `json:"total_internships"`
			Model         string `json:"embedding_model"`
			IndexSize     int    `json:"index_size"`
		} `json:"stats"`
		MaxResults int `json:"max_results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Stats.TotalListings)
	assert.Equal(t, "stub-model", resp.Stats.Model)
	assert.Equal(t, 2, resp.Stats.IndexSize)
	assert.Equal(t, 5, resp.MaxResults)
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(testEngine(t), zap.NewNop(), 0)

	// Generate one request so counters exist.
	doRequest(t, s, http.MethodPost, "/recommend", map[string]any{
		"education_level": "ug",
		"skills":          []string{"python"},
	})

	rec := doRequest(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recommend_requests_total")
}

func TestSetEngineSwapsServing(t *testing.T) {
	s := New(nil, zap.NewNop(), 0)

	rec := doRequest(t, s, http.MethodPost, "/recommend", map[string]any{
		"education_level": "ug",
		"skills":          []string{"python"},
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetEngine(testEngine(t))

	rec = doRequest(t, s, http.MethodPost, "/recommend", map[string]any{
		"education_level": "ug",
		"skills":          []string{"python"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
