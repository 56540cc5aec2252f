package analyzer

import (
	"fmt"

	"profitScope/internal/model"
)

// Ledger accumulates per-sender buy and sell volume in native-asset units
// over one scan. Keys appear lazily on first contribution, values only ever
// grow, and the ledger is discarded after projection.
type Ledger struct {
	buys  map[string]float64
	sells map[string]float64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		buys:  make(map[string]float64),
		sells: make(map[string]float64),
	}
}

// Record adds a swap's amount to the side it belongs to.
func (l *Ledger) Record(swap model.Swap) error {
	switch swap.Side {
	case model.SideBuy:
		l.RecordBuy(swap.Sender, swap.Amount)
	case model.SideSell:
		l.RecordSell(swap.Sender, swap.Amount)
	default:
		return fmt.Errorf("unknown swap side: %d", swap.Side)
	}
	return nil
}

// RecordBuy adds amount to the sender's buy total.
func (l *Ledger) RecordBuy(address string, amount float64) {
	l.buys[address] += amount
}

// RecordSell adds amount to the sender's sell total.
func (l *Ledger) RecordSell(address string, amount float64) {
	l.sells[address] += amount
}

// Buys returns a copy of the buy totals.
func (l *Ledger) Buys() map[string]float64 {
	return copyTotals(l.buys)
}

// Sells returns a copy of the sell totals.
func (l *Ledger) Sells() map[string]float64 {
	return copyTotals(l.sells)
}

func copyTotals(totals map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(totals))
	for address, amount := range totals {
		out[address] = amount
	}
	return out
}
