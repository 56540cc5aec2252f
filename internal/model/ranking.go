package model

import "fmt"

// Mode selects which view of the ledger is projected.
type Mode string

const (
	ModeProfit Mode = "profit"
	ModeBuy    Mode = "buy"
	ModeSell   Mode = "sell"
)

// ParseMode maps a flag value to a Mode. Empty input selects the default
// profit view.
func ParseMode(input string) (Mode, error) {
	switch Mode(input) {
	case "":
		return ModeProfit, nil
	case ModeProfit, ModeBuy, ModeSell:
		return Mode(input), nil
	default:
		return "", fmt.Errorf("unknown mode: %s", input)
	}
}

// RankingEntry is one address with its accumulated value (a profit ratio or
// a native-asset total, depending on the mode).
type RankingEntry struct {
	Address string  `json:"address"`
	Value   float64 `json:"value"`
}

// Ranking is the ordered analysis result for one contract and mode.
// Entries are sorted descending by value.
type Ranking struct {
	Contract string         `json:"contract"`
	Mode     Mode           `json:"mode"`
	Entries  []RankingEntry `json:"entries"`
}
