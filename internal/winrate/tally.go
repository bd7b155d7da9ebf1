package winrate

import "github.com/yourusername/deck-ranker/internal/models"

// pairTally is one deck's record against one opponent, priors included
type pairTally struct {
	wins  float64
	total float64
}

// pairTable is a dense n×n table of tallies and posterior rates indexed by
// roster position. Row i holds deck i's perspective.
type pairTable struct {
	ids     []int64
	index   map[int64]int
	tallies []pairTally
	rates   []float64
}

func (t *pairTable) size() int {
	return len(t.ids)
}

func (t *pairTable) at(i, j int) pairTally {
	return t.tallies[i*len(t.ids)+j]
}

func (t *pairTable) rate(i, j int) float64 {
	return t.rates[i*len(t.ids)+j]
}

// buildPairTable tallies matches and priors for the roster. Decks listed more
// than once keep their first position; matches naming unknown decks or a deck
// against itself are skipped.
func buildPairTable(decks []models.Deck, matches []models.MatchResult, priors map[string]models.MatchupPrior, cfg Config) *pairTable {
	t := &pairTable{
		ids:   make([]int64, 0, len(decks)),
		index: make(map[int64]int, len(decks)),
	}
	for _, deck := range decks {
		if _, seen := t.index[deck.ID]; seen {
			continue
		}
		t.index[deck.ID] = len(t.ids)
		t.ids = append(t.ids, deck.ID)
	}

	n := len(t.ids)
	t.tallies = make([]pairTally, n*n)
	t.rates = make([]float64, n*n)

	for k := range matches {
		m := &matches[k]
		i, okFirst := t.index[m.FirstDeckID]
		j, okSecond := t.index[m.SecondDeckID]
		if !okFirst || !okSecond || i == j {
			continue
		}
		t.tallies[i*n+j].total++
		t.tallies[j*n+i].total++
		switch m.WinningDeckID {
		case m.FirstDeckID:
			t.tallies[i*n+j].wins++
		case m.SecondDeckID:
			t.tallies[j*n+i].wins++
		}
	}

	if cfg.Policy == PolicyPriorBlend && len(priors) > 0 {
		t.foldPriors(priors, cfg.PriorWeight)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			t.rates[i*n+j] = pairRate(t.tallies[i*n+j], cfg)
		}
	}
	return t
}

// foldPriors adds prior pseudo-counts. The direct key (D,O) wins over the
// reverse key (O,D), whose wins are inverted.
func (t *pairTable) foldPriors(priors map[string]models.MatchupPrior, weight float64) {
	n := len(t.ids)
	for i, deckID := range t.ids {
		for j, opponentID := range t.ids {
			if i == j {
				continue
			}
			prior, ok := priors[models.PriorKey(deckID, opponentID)]
			if !ok {
				prior, ok = priors[models.PriorKey(opponentID, deckID)]
			}
			if !ok {
				continue
			}
			cell := &t.tallies[i*n+j]
			cell.total += float64(prior.PriorMatches) * weight
			cell.wins += float64(prior.WinsFor(deckID)) * weight
		}
	}
}

func pairRate(p pairTally, cfg Config) float64 {
	if cfg.Policy == PolicyNeutralFallback && (p.total == 0 || p.total < float64(cfg.MinValidMatches)) {
		return 0.5
	}
	if p.total == 0 {
		return 0
	}
	return p.wins / p.total
}

// averages computes the count-weighted mean of each deck's pairwise rates.
func (t *pairTable) averages() []float64 {
	n := len(t.ids)
	avg := make([]float64, n)
	for i := 0; i < n; i++ {
		var weightSum, weighted float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			cell := t.tallies[i*n+j]
			if cell.total == 0 {
				continue
			}
			weightSum += cell.total
			weighted += cell.total * t.rates[i*n+j]
		}
		if weightSum > 0 {
			avg[i] = weighted / weightSum
		}
	}
	return avg
}
