// Package server is the HTTP boundary of the recommendation service. It owns
// request validation, error-to-status mapping, the request concurrency bound
// and the atomically swappable engine handle.
package server

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/disha-labs/intern-recommender/internal/recommend"
)

const defaultRequestTimeout = 10 * time.Second

// Server serves the recommendation API. The engine handle is swapped
// atomically on reload, so in-flight requests keep the engine they started
// with.
type Server struct {
	engine         atomic.Pointer[recommend.Engine]
	logger         *zap.Logger
	requestTimeout time.Duration
	semaphore      chan struct{}
	router         *gin.Engine
}

// New creates a server. A nil engine is allowed: the server starts degraded
// and reports 503 on /recommend until an engine is set.
func New(engine *recommend.Engine, logger *zap.Logger, requestTimeout time.Duration) *Server {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	s := &Server{
		logger:         logger,
		requestTimeout: requestTimeout,
		semaphore:      make(chan struct{}, runtime.GOMAXPROCS(0)),
	}
	if engine != nil {
		s.engine.Store(engine)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.POST("/recommend", s.handleRecommend)
	router.GET("/recommend/test", s.handleRecommendTest)
	router.GET("/stats", s.handleStats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetEngine replaces the serving engine. Safe to call while requests are in
// flight.
func (s *Server) SetEngine(engine *recommend.Engine) {
	s.engine.Store(engine)
}

// Run blocks serving HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

// recommendRequest is the wire shape of a recommendation request. Binding
// tags reject structurally broken requests before profile semantics are
// checked.
type recommendRequest struct {
	EducationLevel     string   `json:"education_level" binding:"required"`
	MajorField         string   `json:"major_field"`
	Skills             []string `json:"skills" binding:"required,min=1"`
	PreferredSectors   []string `json:"preferred_sectors"`
	PreferredLocations []string `json:"preferred_locations"`
	RemoteOK           bool     `json:"remote_ok"`
	AvailabilityStart  string   `json:"availability_start"`
	DurationWeeksPref  int      `json:"duration_weeks_pref"`
	StipendPref        string   `json:"stipend_pref"`
	CareerGoal         string   `json:"career_goal"`
}

func (r *recommendRequest) profile() *recommend.CandidateProfile {
	return &recommend.CandidateProfile{
		EducationLevel:     r.EducationLevel,
		MajorField:         r.MajorField,
		Skills:             r.Skills,
		PreferredSectors:   r.PreferredSectors,
		PreferredLocations: r.PreferredLocations,
		RemoteOK:           r.RemoteOK,
		AvailabilityStart:  r.AvailabilityStart,
		DurationWeeksPref:  r.DurationWeeksPref,
		StipendPref:        r.StipendPref,
		CareerGoal:         r.CareerGoal,
	}
}

type recommendResponse struct {
	Success              bool                        `json:"success"`
	Recommendations      []*recommend.Recommendation `json:"recommendations"`
	TotalRecommendations int                         `json:"total_recommendations"`
}

type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.engine.Load() == nil {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "reason": "index not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		recommendRequestsFailed.WithLabelValues("validation").Inc()
		c.JSON(http.StatusBadRequest, bindingErrorResponse(err))
		return
	}

	s.serveProfile(c, req.profile())
}

// handleRecommendTest runs a fixed sample profile, useful for smoke checks
// without crafting a request body.
func (s *Server) handleRecommendTest(c *gin.Context) {
	s.serveProfile(c, &recommend.CandidateProfile{
		EducationLevel:     "ug",
		MajorField:         "computer science",
		Skills:             []string{"python", "data analysis", "sql"},
		PreferredSectors:   []string{"technology", "analytics"},
		PreferredLocations: []string{"Mumbai"},
		RemoteOK:           true,
		StipendPref:        "5000-15000",
		CareerGoal:         "become a data analyst",
	})
}

func (s *Server) serveProfile(c *gin.Context, profile *recommend.CandidateProfile) {
	recommendRequestsTotal.Inc()
	started := time.Now()
	defer func() {
		recommendDuration.Observe(time.Since(started).Seconds())
	}()

	engine := s.engine.Load()
	if engine == nil {
		recommendRequestsFailed.WithLabelValues("unavailable").Inc()
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "recommendation engine unavailable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-ctx.Done():
		recommendRequestsFailed.WithLabelValues("overloaded").Inc()
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "server is overloaded"})
		return
	}

	recs, err := engine.Recommend(ctx, profile)
	if err != nil {
		s.writeRecommendError(c, err)
		return
	}

	recommendationsReturned.Observe(float64(len(recs)))
	if recs == nil {
		recs = []*recommend.Recommendation{}
	}

	c.JSON(http.StatusOK, recommendResponse{
		Success:              true,
		Recommendations:      recs,
		TotalRecommendations: len(recs),
	})
}

func (s *Server) writeRecommendError(c *gin.Context, err error) {
	if ve, ok := recommend.AsValidationError(err); ok {
		recommendRequestsFailed.WithLabelValues("validation").Inc()
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid candidate profile", Fields: ve.Fields})
		return
	}

	if errors.Is(err, recommend.ErrUnavailable) {
		recommendRequestsFailed.WithLabelValues("unavailable").Inc()
		s.logger.Error("recommendation backend unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "recommendation engine unavailable"})
		return
	}

	recommendRequestsFailed.WithLabelValues("internal").Inc()
	s.logger.Error("recommendation request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) handleStats(c *gin.Context) {
	engine := s.engine.Load()
	if engine == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "recommendation engine unavailable"})
		return
	}

	stats := engine.Stats()
	cfg := engine.Config()
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"stats":               stats,
		"top_k_retrieval":     cfg.TopKRetrieval,
		"max_results":         cfg.MaxResults,
		"min_score_threshold": cfg.MinScoreThreshold,
	})
}

// bindingErrorResponse translates gin binding failures into the field map
// shape the rest of the API uses.
func bindingErrorResponse(err error) errorResponse {
	resp := errorResponse{Error: "invalid request body"}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				resp.Fields[fieldName(fe)] = "is required"
			case "min":
				resp.Fields[fieldName(fe)] = "must not be empty"
			default:
				resp.Fields[fieldName(fe)] = "is invalid"
			}
		}
	}

	return resp
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "EducationLevel":
		return "education_level"
	case "Skills":
		return "skills"
	default:
		return fe.Field()
	}
}
