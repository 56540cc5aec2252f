package model

// Side is the direction of a swap relative to the native asset.
type Side int

const (
	SideBuy Side = iota + 1
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Swap is a decoded swap attributed to the transaction sender. Amount is in
// native-asset units, rounded to three decimals.
type Swap struct {
	Side        Side
	Amount      float64
	Sender      string
	TxHash      string
	BlockNumber uint64
}
