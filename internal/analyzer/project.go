package analyzer

import (
	"sort"

	"profitScope/internal/model"
)

// Rank orders a totals map into a ranking: descending by value, ties broken
// ascending by address so the output is deterministic.
func Rank(contract string, mode model.Mode, totals map[string]float64) model.Ranking {
	entries := make([]model.RankingEntry, 0, len(totals))
	for address, value := range totals {
		entries = append(entries, model.RankingEntry{Address: address, Value: value})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value == entries[j].Value {
			return entries[i].Address < entries[j].Address
		}
		return entries[i].Value > entries[j].Value
	})

	return model.Ranking{
		Contract: contract,
		Mode:     mode,
		Entries:  entries,
	}
}
