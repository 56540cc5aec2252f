package pool

import (
	"strings"

	"profitScope/internal/model"
)

// Schema identifies which of the two supported swap event layouts a pool
// emits. Classified once per contract and immutable afterwards.
type Schema int

const (
	SchemaV2 Schema = iota + 1
	SchemaV3
)

func (s Schema) String() string {
	switch s {
	case SchemaV2:
		return "v2"
	case SchemaV3:
		return "v3"
	default:
		return "unknown"
	}
}

var (
	v3Markers = []string{`"sqrtPriceX96"`, `"tick"`, `"liquidity"`}
	v2Markers = []string{`"amount0In"`, `"amount1In"`, `"amount0Out"`, `"amount1Out"`}
)

// Classify inspects a contract's ABI text for the field names that
// distinguish the two supported pool layouts. V3 is checked first; mutual
// exclusivity of the marker sets is a precondition of well-formed input.
func Classify(abiJSON string) (Schema, error) {
	if containsAll(abiJSON, v3Markers) {
		return SchemaV3, nil
	}
	if containsAll(abiJSON, v2Markers) {
		return SchemaV2, nil
	}
	return 0, model.ErrUnsupportedPool
}

func containsAll(text string, markers []string) bool {
	for _, marker := range markers {
		if !strings.Contains(text, marker) {
			return false
		}
	}
	return true
}
