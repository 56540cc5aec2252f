package analyzer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceReader provides current native-asset balances.
type BalanceReader interface {
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
}

// PriceSource provides the native asset's fiat price.
type PriceSource interface {
	NativeAssetPrice(ctx context.Context) (float64, error)
}

var weiPerNative = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FilterByBalance returns a new map retaining only addresses whose current
// balance is worth at least minFiat. The price is quoted once and reused
// for the whole pass, keeping the threshold consistent and bounding
// external calls. A non-positive floor disables the filter and returns the
// input unchanged.
func FilterByBalance(
	ctx context.Context,
	totals map[string]float64,
	minFiat float64,
	balances BalanceReader,
	prices PriceSource,
) (map[string]float64, error) {
	if minFiat <= 0 {
		return totals, nil
	}

	price, err := prices.NativeAssetPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("native asset price: %w", err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("invalid native asset price: %v", price)
	}
	threshold := minFiat / price

	out := make(map[string]float64, len(totals))
	for address, value := range totals {
		balance, err := balances.BalanceAt(ctx, common.HexToAddress(address))
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", address, err)
		}
		if nativeUnits(balance) < threshold {
			continue
		}
		out[address] = value
	}
	return out, nil
}

func nativeUnits(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	units, _ := new(big.Rat).SetFrac(wei, weiPerNative).Float64()
	return units
}
