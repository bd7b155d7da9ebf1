package models

// WinRateReport is the engine output for a single deck
type WinRateReport struct {
	DeckID            int64   `json:"deck_id"`
	AverageWinRate    float64 `json:"average_win_rate"`
	WeightedWinRate   float64 `json:"weighted_win_rate"`
	EnvironmentOffset float64 `json:"environment_offset"`
}
