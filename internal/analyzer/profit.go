package analyzer

// Profit reduces a completed ledger into per-address sell/buy ratios.
//
// Only addresses with recorded sells produce entries. When no buy total
// exists for a seller, the divisor defaults to the sell total itself,
// yielding a ratio of exactly 1.0. A zero divisor skips the address
// instead of reporting a degenerate ratio.
func Profit(ledger *Ledger) map[string]float64 {
	buys := ledger.Buys()
	sells := ledger.Sells()

	out := make(map[string]float64, len(sells))
	for address, sold := range sells {
		divisor, ok := buys[address]
		if !ok {
			divisor = sold
		}
		if divisor == 0 {
			continue
		}
		out[address] = sold / divisor
	}
	return out
}
