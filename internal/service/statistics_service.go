package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/repository"
	"github.com/yourusername/deck-ranker/internal/snapshot"
	"github.com/yourusername/deck-ranker/internal/winrate"
)

// Hand filters for matchup statistics
const (
	HandAny    = ""
	HandFirst  = "first"
	HandSecond = "second"
)

// DeckStatistics is one deck's overall record
type DeckStatistics struct {
	DeckID       int64   `json:"deck_id"`
	DeckName     string  `json:"deck_name"`
	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
}

// StatisticsReport lists deck records within an environment
type StatisticsReport struct {
	EnvironmentID   int64            `json:"environment_id"`
	EnvironmentName string           `json:"environment_name"`
	DeckStatistics  []DeckStatistics `json:"deck_statistics"`
}

// MatchupStats is one deck's record against one opponent
type MatchupStats struct {
	OpponentName     string   `json:"opponent_name"`
	Total            int      `json:"total"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	WinRate          float64  `json:"win_rate"`
	PosteriorWinRate *float64 `json:"posterior_win_rate,omitempty"`
	FirstHandTotal   int      `json:"first_hand_total"`
	FirstHandWins    int      `json:"first_hand_wins"`
	SecondHandTotal  int      `json:"second_hand_total"`
	SecondHandWins   int      `json:"second_hand_wins"`
}

// DeckMatchups holds a deck's matchups keyed by opponent ID
type DeckMatchups struct {
	DeckName string                  `json:"deck_name"`
	Matchups map[int64]*MatchupStats `json:"matchups"`
}

// MatchupReport holds every deck's matchups within an environment
type MatchupReport struct {
	EnvironmentID     int64                  `json:"environment_id"`
	EnvironmentName   string                 `json:"environment_name"`
	MatchTypeID       *int64                 `json:"match_type_id,omitempty"`
	Hand              string                 `json:"hand,omitempty"`
	MatchupStatistics map[int64]DeckMatchups `json:"matchup_statistics"`
}

// StatisticsService computes descriptive match statistics
type StatisticsService struct {
	envRepo       repository.EnvironmentRepository
	matchTypeRepo repository.MatchTypeRepository
	deckRepo      repository.DeckRepository
	matchRepo     repository.MatchResultRepository
	priorRepo     repository.MatchupPriorRepository
	defaults      winrate.Config
	logger        *logrus.Logger
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	envRepo repository.EnvironmentRepository,
	matchTypeRepo repository.MatchTypeRepository,
	deckRepo repository.DeckRepository,
	matchRepo repository.MatchResultRepository,
	priorRepo repository.MatchupPriorRepository,
	defaults winrate.Config,
	logger *logrus.Logger,
) *StatisticsService {
	return &StatisticsService{
		envRepo:       envRepo,
		matchTypeRepo: matchTypeRepo,
		deckRepo:      deckRepo,
		matchRepo:     matchRepo,
		priorRepo:     priorRepo,
		defaults:      defaults,
		logger:        logger,
	}
}

// DeckStatistics returns each environment deck's win/loss record
func (s *StatisticsService) DeckStatistics(ctx context.Context, environmentID int64, matchTypeID *int64) (*StatisticsReport, error) {
	env, decks, matches, err := s.load(ctx, environmentID, matchTypeID)
	if err != nil {
		return nil, err
	}

	report := &StatisticsReport{
		EnvironmentID:   env.ID,
		EnvironmentName: env.Name,
		DeckStatistics:  make([]DeckStatistics, 0, len(decks)),
	}
	for _, deck := range decks {
		stats := DeckStatistics{DeckID: deck.ID, DeckName: deck.Name}
		for i := range matches {
			winner, loser := matches[i].WinningDeckID, matches[i].Loser()
			if winner == loser {
				continue
			}
			switch deck.ID {
			case winner:
				stats.Wins++
			case loser:
				stats.Losses++
			}
		}
		stats.TotalMatches = stats.Wins + stats.Losses
		stats.WinRate = percent(stats.Wins, stats.TotalMatches)
		report.DeckStatistics = append(report.DeckStatistics, stats)
	}

	return report, nil
}

// DeckMatchups returns head-to-head records between environment decks.
// hand restricts to matches the deck played first or second; matches without
// play order only count when hand is empty.
func (s *StatisticsService) DeckMatchups(ctx context.Context, environmentID int64, matchTypeID *int64, hand string) (*MatchupReport, error) {
	if hand != HandAny && hand != HandFirst && hand != HandSecond {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidHand, hand)
	}

	env, decks, matches, err := s.load(ctx, environmentID, matchTypeID)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(decks))
	for _, deck := range decks {
		names[deck.ID] = deck.Name
	}

	posterior, err := s.posteriorRates(ctx, decks, matches)
	if err != nil {
		return nil, err
	}

	report := &MatchupReport{
		EnvironmentID:     env.ID,
		EnvironmentName:   env.Name,
		MatchTypeID:       matchTypeID,
		Hand:              hand,
		MatchupStatistics: make(map[int64]DeckMatchups, len(decks)),
	}
	for _, deck := range decks {
		matchups := make(map[int64]*MatchupStats)
		for i := range matches {
			m := &matches[i]
			winner, loser := m.WinningDeckID, m.Loser()
			if deck.ID != winner && deck.ID != loser {
				continue
			}
			opponentID := winner
			if deck.ID == winner {
				opponentID = loser
			}
			opponentName, known := names[opponentID]
			if !known {
				continue
			}

			hasHand := m.HasHandInfo()
			isFirst := hasHand && m.FirstDeckID == deck.ID
			if hand == HandFirst && (!hasHand || !isFirst) {
				continue
			}
			if hand == HandSecond && (!hasHand || isFirst) {
				continue
			}

			stats, ok := matchups[opponentID]
			if !ok {
				stats = &MatchupStats{OpponentName: opponentName}
				if rate, found := posterior.PairwiseRate(deck.ID, opponentID); found {
					pct := percentFloat(rate)
					stats.PosteriorWinRate = &pct
				}
				matchups[opponentID] = stats
			}

			stats.Total++
			won := deck.ID == winner
			if won {
				stats.Wins++
			} else {
				stats.Losses++
			}
			if hasHand {
				if isFirst {
					stats.FirstHandTotal++
					if won {
						stats.FirstHandWins++
					}
				} else {
					stats.SecondHandTotal++
					if won {
						stats.SecondHandWins++
					}
				}
			}
		}
		for _, stats := range matchups {
			stats.WinRate = percent(stats.Wins, stats.Total)
		}
		report.MatchupStatistics[deck.ID] = DeckMatchups{DeckName: deck.Name, Matchups: matchups}
	}

	return report, nil
}

func (s *StatisticsService) load(ctx context.Context, environmentID int64, matchTypeID *int64) (*models.Environment, []models.Deck, []models.MatchResult, error) {
	env, err := s.envRepo.GetByID(ctx, environmentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, nil, fmt.Errorf("environment %d: %w", environmentID, models.ErrNotFound)
		}
		return nil, nil, nil, fmt.Errorf("failed to get environment: %w", err)
	}

	if matchTypeID != nil {
		if _, err := s.matchTypeRepo.GetByID(ctx, *matchTypeID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, nil, nil, fmt.Errorf("match type %d: %w", *matchTypeID, models.ErrNotFound)
			}
			return nil, nil, nil, fmt.Errorf("failed to get match type: %w", err)
		}
	}

	decks, err := s.deckRepo.List(ctx, &environmentID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load decks: %w", err)
	}

	matches, err := s.matchRepo.List(ctx, models.MatchResultFilter{
		EnvironmentID: &environmentID,
		MatchTypeID:   matchTypeID,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load match results: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"environment_id": environmentID,
		"decks":          len(decks),
		"matches":        len(matches),
	}).Debug("Loaded statistics inputs")

	return env, decks, matches, nil
}

// posteriorRates blends matches with priors using the configured defaults
func (s *StatisticsService) posteriorRates(ctx context.Context, decks []models.Deck, matches []models.MatchResult) (winrate.Result, error) {
	var priors map[string]models.MatchupPrior
	if s.defaults.Policy == winrate.PolicyPriorBlend {
		var err error
		priors, err = s.priorRepo.ListAll(ctx)
		if err != nil {
			return winrate.Result{}, fmt.Errorf("failed to load matchup priors: %w", err)
		}
	}

	engine, err := winrate.NewEngine(s.defaults)
	if err != nil {
		return winrate.Result{}, err
	}

	snap := &snapshot.Snapshot{
		Decks:   decks,
		Matches: append([]models.MatchResult(nil), matches...),
		Priors:  priors,
	}
	snap.Normalize()
	return engine.Pairwise(snap.Input()), nil
}

// percent returns wins/total as a percentage rounded to two places
func percent(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(wins)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

func percentFloat(rate float64) float64 {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}
