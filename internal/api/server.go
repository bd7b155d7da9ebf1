// Package api exposes the ranking, statistics and data-entry endpoints over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/deck-ranker/internal/config"
	"github.com/yourusername/deck-ranker/internal/metrics"
	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/service"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// RankingCalculator runs ranking computations
type RankingCalculator interface {
	Calculate(ctx context.Context, req models.RankingRequest) (*models.Ranking, error)
}

// StatisticsProvider computes descriptive statistics
type StatisticsProvider interface {
	DeckStatistics(ctx context.Context, environmentID int64, matchTypeID *int64) (*service.StatisticsReport, error)
	DeckMatchups(ctx context.Context, environmentID int64, matchTypeID *int64, hand string) (*service.MatchupReport, error)
}

// MatchRecorder stores and removes match results
type MatchRecorder interface {
	Create(ctx context.Context, result *models.MatchResult) error
	CreateBatch(ctx context.Context, results []*models.MatchResult) error
	List(ctx context.Context, filter models.MatchResultFilter) ([]models.MatchResult, error)
	Get(ctx context.Context, id int64) (*models.MatchResult, error)
	Delete(ctx context.Context, id int64) error
}

// PriorStore manages matchup priors
type PriorStore interface {
	List(ctx context.Context) (map[string]models.MatchupPrior, error)
	Upsert(ctx context.Context, prior *models.MatchupPrior) error
}

// Catalog manages environments, match types and decks
type Catalog interface {
	ListEnvironments(ctx context.Context) ([]models.Environment, error)
	CreateEnvironment(ctx context.Context, env *models.Environment) error
	ListMatchTypes(ctx context.Context) ([]models.MatchType, error)
	ListDecks(ctx context.Context, environmentID *int64) ([]models.Deck, error)
	CreateDeck(ctx context.Context, deck *models.Deck) error
}

// Config wires the API server
type Config struct {
	Server      config.ServerConfig
	MetricsPath string
	Logger      *logrus.Logger

	Rankings   RankingCalculator
	Statistics StatisticsProvider
	Matches    MatchRecorder
	Priors     PriorStore
	Catalog    Catalog
}

// Server serves the HTTP API
type Server struct {
	cfg       config.ServerConfig
	logger    *logrus.Logger
	validator *validator.Validate
	limiter   *rate.Limiter
	router    chi.Router
	server    *http.Server

	rankings   RankingCalculator
	statistics StatisticsProvider
	matches    MatchRecorder
	priors     PriorStore
	catalog    Catalog
}

// NewServer creates the API server and its routes
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:        cfg.Server,
		logger:     cfg.Logger,
		validator:  validator.New(),
		rankings:   cfg.Rankings,
		statistics: cfg.Statistics,
		matches:    cfg.Matches,
		priors:     cfg.Priors,
		catalog:    cfg.Catalog,
	}
	if cfg.Server.RateLimitPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimitPerSecond), cfg.Server.RateLimitBurst)
	}
	s.router = s.routes(cfg.MetricsPath)
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes(metricsPath string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	if metricsPath != "" {
		r.Handle(metricsPath, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Post("/win-rates/calculate", s.CalculateWinRates)
		r.Get("/statistics", s.GetStatistics)
		r.Get("/deck-matchups", s.GetDeckMatchups)

		r.Get("/matchup-priors", s.ListMatchupPriors)
		r.Post("/matchup-priors", s.UpsertMatchupPrior)

		r.Route("/match-results", func(r chi.Router) {
			r.Get("/", s.ListMatchResults)
			r.Post("/", s.CreateMatchResult)
			r.Post("/batch", s.CreateMatchResultBatch)
			r.Get("/{id}", s.GetMatchResult)
			r.Delete("/{id}", s.DeleteMatchResult)
		})

		r.Get("/environments", s.ListEnvironments)
		r.Post("/environments", s.CreateEnvironment)
		r.Get("/match-types", s.ListMatchTypes)
		r.Get("/decks", s.ListDecks)
		r.Post("/decks", s.CreateDeck)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.address(),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.server.Addr).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) address() string {
	return fmt.Sprintf(":%d", s.cfg.Port)
}
