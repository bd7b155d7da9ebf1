package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/deck-ranker/internal/database"
	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/repository"
	"github.com/yourusername/deck-ranker/internal/service"
	"github.com/yourusername/deck-ranker/internal/snapshot"
)

var computeOpts struct {
	input         string
	environmentID int64
	matchTypeID   int64
	sensitivity   float64
	priorWeight   float64
	policy        string
	offsets       map[string]string
	output        string
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a ranking once and print it",
	Long: `Computes a ranking from a JSON snapshot file (--input) or from the database
and prints it as a table or JSON.`,
	Example: `  deck-ranker compute --input snapshot.json --sensitivity 45
  deck-ranker compute --environment 3 --offset 7=2.5 --output json`,
	RunE: runCompute,
}

func init() {
	f := computeCmd.Flags()
	f.StringVarP(&computeOpts.input, "input", "i", "", "JSON snapshot file; reads the database when empty")
	f.Int64Var(&computeOpts.environmentID, "environment", 0, "Environment ID (database mode)")
	f.Int64Var(&computeOpts.matchTypeID, "match-type", 0, "Match type ID (database mode)")
	f.Float64Var(&computeOpts.sensitivity, "sensitivity", 0, "Sensitivity override (1-100)")
	f.Float64Var(&computeOpts.priorWeight, "prior-weight", -1, "Prior weight override")
	f.StringVar(&computeOpts.policy, "policy", "", "Sparse pairing policy: prior-blend, neutral-fallback or raw-empirical")
	f.StringToStringVar(&computeOpts.offsets, "offset", nil, "Environment offset per deck, e.g. --offset 7=2.5")
	f.StringVarP(&computeOpts.output, "output", "o", "table", "Output format: table or json")
}

func runCompute(cmd *cobra.Command, args []string) error {
	if computeOpts.output != "table" && computeOpts.output != "json" {
		return fmt.Errorf("unknown output format %q", computeOpts.output)
	}

	req, err := buildRankingRequest(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var (
		ranking *models.Ranking
		decks   []models.Deck
	)
	if computeOpts.input != "" {
		ranking, decks, err = computeFromFile(computeOpts.input, req)
	} else {
		ranking, decks, err = computeFromDatabase(ctx, req)
	}
	if err != nil {
		return err
	}

	if computeOpts.output == "json" {
		return writeJSON(cmd.OutOrStdout(), ranking)
	}
	return writeTable(cmd.OutOrStdout(), ranking, decks)
}

// buildRankingRequest turns the explicitly set flags into request overrides
func buildRankingRequest(cmd *cobra.Command) (models.RankingRequest, error) {
	flags := cmd.Flags()
	req := models.RankingRequest{SparsePolicy: computeOpts.policy}

	if flags.Changed("environment") {
		req.EnvironmentID = &computeOpts.environmentID
	}
	if flags.Changed("match-type") {
		req.MatchTypeID = &computeOpts.matchTypeID
	}
	if flags.Changed("sensitivity") {
		req.Sensitivity = &computeOpts.sensitivity
	}
	if flags.Changed("prior-weight") {
		req.PriorWeight = &computeOpts.priorWeight
	}

	offsets, err := parseOffsets(computeOpts.offsets)
	if err != nil {
		return req, err
	}
	req.EnvironmentOffsets = offsets
	return req, nil
}

func parseOffsets(raw map[string]string) (map[int64]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	offsets := make(map[int64]float64, len(raw))
	for deck, value := range raw {
		id, err := strconv.ParseInt(deck, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid deck id %q in --offset", deck)
		}
		offset, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q for deck %d", value, id)
		}
		offsets[id] = offset
	}
	return offsets, nil
}

func computeFromFile(path string, req models.RankingRequest) (*models.Ranking, []models.Deck, error) {
	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if req.EnvironmentOffsets != nil {
		if snap.EnvironmentOffsets == nil {
			snap.EnvironmentOffsets = make(map[int64]float64, len(req.EnvironmentOffsets))
		}
		for id, offset := range req.EnvironmentOffsets {
			snap.EnvironmentOffsets[id] = offset
		}
	}

	defaults, err := cfg.EngineConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid ranking configuration: %w", err)
	}
	engineCfg, err := service.ResolveConfig(defaults, req)
	if err != nil {
		return nil, nil, err
	}

	ranking, err := service.RankSnapshot(snap, engineCfg)
	if err != nil {
		return nil, nil, err
	}
	appLog.WithField("input", path).Debug("Ranked snapshot file")
	return ranking, snap.Decks, nil
}

func computeFromDatabase(ctx context.Context, req models.RankingRequest) (*models.Ranking, []models.Deck, error) {
	if err := validateConfig(); err != nil {
		return nil, nil, err
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return nil, nil, err
	}
	defaults, err := cfg.EngineConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid ranking configuration: %w", err)
	}

	rankingSvc := service.NewRankingService(repos.Deck, repos.MatchResult, repos.MatchupPrior, nil, defaults, appLog)
	ranking, err := rankingSvc.Calculate(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	decks, err := repos.Deck.List(ctx, req.EnvironmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load deck names: %w", err)
	}
	return ranking, decks, nil
}

func writeJSON(w io.Writer, ranking *models.Ranking) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ranking)
}

// writeTable prints the ranked decks strongest first
func writeTable(w io.Writer, ranking *models.Ranking, decks []models.Deck) error {
	names := make(map[int64]string, len(decks))
	for _, deck := range decks {
		names[deck.ID] = deck.Name
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RANK\tDECK\tNAME\tWEIGHTED %\tAVERAGE %\tOFFSET\t")
	for i, report := range ranking.Ranked {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t\n",
			i+1,
			report.DeckID,
			names[report.DeckID],
			asPercent(report.WeightedWinRate),
			asPercent(report.AverageWinRate),
			decimal.NewFromFloat(report.EnvironmentOffset).StringFixed(1),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	status := "converged"
	if !ranking.Converged {
		status = "iteration cap reached"
	}
	_, err := fmt.Fprintf(w, "\n%d decks, %d matches, T=%s, policy %s, %d rounds (%s)\n",
		ranking.DeckCount, ranking.MatchCount,
		strconv.FormatFloat(ranking.Sensitivity, 'g', -1, 64),
		ranking.SparsePolicy, ranking.Iterations, status)
	return err
}

func asPercent(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
