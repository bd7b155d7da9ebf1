package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourusername/deck-ranker/internal/models"
)

// CalculateWinRates ranks decks for the requested environment and tuning
func (s *Server) CalculateWinRates(w http.ResponseWriter, r *http.Request) {
	var req models.RankingRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid_parameters", err.Error())
		return
	}

	ranking, err := s.rankings.Calculate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ranking)
}

// GetStatistics returns per-deck records for an environment
func (s *Server) GetStatistics(w http.ResponseWriter, r *http.Request) {
	environmentID, err := requiredQueryID(r, "environment_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	matchTypeID, err := queryID(r, "match_type_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.statistics.DeckStatistics(r.Context(), environmentID, matchTypeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// GetDeckMatchups returns head-to-head records for an environment
func (s *Server) GetDeckMatchups(w http.ResponseWriter, r *http.Request) {
	environmentID, err := requiredQueryID(r, "environment_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	matchTypeID, err := queryID(r, "match_type_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.statistics.DeckMatchups(r.Context(), environmentID, matchTypeID, r.URL.Query().Get("hand"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// ListMatchupPriors returns every prior keyed by deck pair
func (s *Server) ListMatchupPriors(w http.ResponseWriter, r *http.Request) {
	priors, err := s.priors.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, priors)
}

// UpsertMatchupPrior creates or replaces a prior
func (s *Server) UpsertMatchupPrior(w http.ResponseWriter, r *http.Request) {
	var prior models.MatchupPrior
	if !s.decodeJSON(w, r, &prior) {
		return
	}
	if err := s.priors.Upsert(r.Context(), &prior); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, prior)
}

// ListMatchResults returns match results narrowed by query parameters
func (s *Server) ListMatchResults(w http.ResponseWriter, r *http.Request) {
	var filter models.MatchResultFilter
	targets := []struct {
		name string
		dst  **int64
	}{
		{"environment_id", &filter.EnvironmentID},
		{"match_type_id", &filter.MatchTypeID},
		{"first_deck_id", &filter.FirstDeckID},
		{"second_deck_id", &filter.SecondDeckID},
		{"winning_deck_id", &filter.WinningDeckID},
		{"losing_deck_id", &filter.LosingDeckID},
	}
	for _, target := range targets {
		id, err := queryID(r, target.name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		*target.dst = id
	}

	results, err := s.matches.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, results)
}

// CreateMatchResult stores one match result
func (s *Server) CreateMatchResult(w http.ResponseWriter, r *http.Request) {
	var result models.MatchResult
	if !s.decodeJSON(w, r, &result) {
		return
	}
	if err := s.matches.Create(r.Context(), &result); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, result)
}

// CreateMatchResultBatch stores several results of one pairing
func (s *Server) CreateMatchResultBatch(w http.ResponseWriter, r *http.Request) {
	var results []*models.MatchResult
	if !s.decodeJSON(w, r, &results) {
		return
	}
	if err := s.matches.CreateBatch(r.Context(), results); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, results)
}

// GetMatchResult returns one match result
func (s *Server) GetMatchResult(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	result, err := s.matches.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// DeleteMatchResult removes one match result
func (s *Server) DeleteMatchResult(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.matches.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEnvironments returns every environment
func (s *Server) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	envs, err := s.catalog.ListEnvironments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, envs)
}

// CreateEnvironment stores a new environment
func (s *Server) CreateEnvironment(w http.ResponseWriter, r *http.Request) {
	var env models.Environment
	if !s.decodeJSON(w, r, &env) {
		return
	}
	if err := s.catalog.CreateEnvironment(r.Context(), &env); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, env)
}

// ListMatchTypes returns every match type
func (s *Server) ListMatchTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListMatchTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types)
}

// ListDecks returns decks, optionally scoped by environment_id
func (s *Server) ListDecks(w http.ResponseWriter, r *http.Request) {
	environmentID, err := queryID(r, "environment_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	decks, err := s.catalog.ListDecks(r.Context(), environmentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, decks)
}

// CreateDeck stores a new deck
func (s *Server) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var deck models.Deck
	if !s.decodeJSON(w, r, &deck) {
		return
	}
	if err := s.catalog.CreateDeck(r.Context(), &deck); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, deck)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
