package analyzer

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

type fakeBalances struct {
	balances map[common.Address]*big.Int
}

func (f *fakeBalances) BalanceAt(_ context.Context, address common.Address) (*big.Int, error) {
	balance, ok := f.balances[address]
	if !ok {
		return nil, fmt.Errorf("no balance for %s", address.Hex())
	}
	return balance, nil
}

type fakePrices struct {
	price float64
	calls int
}

func (f *fakePrices) NativeAssetPrice(context.Context) (float64, error) {
	f.calls++
	return f.price, nil
}

func wei(native int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(native), big.NewInt(1e18))
}

func TestFilterDisabledReturnsInputUnchanged(t *testing.T) {
	totals := map[string]float64{"0xaaaa": 1.0}

	got, err := FilterByBalance(context.Background(), totals, 0, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, totals) {
		t.Fatalf("map must be unchanged: %+v", got)
	}
}

func TestFilterDropsBelowThreshold(t *testing.T) {
	rich := common.HexToAddress("0x1111111111111111111111111111111111111111")
	poor := common.HexToAddress("0x2222222222222222222222222222222222222222")

	totals := map[string]float64{
		rich.Hex(): 2.0,
		poor.Hex(): 3.0,
	}
	balances := &fakeBalances{balances: map[common.Address]*big.Int{
		rich: wei(10),
		poor: wei(1),
	}}
	prices := &fakePrices{price: 100}

	// floor 500 fiat at price 100 => threshold 5 native units
	got, err := FilterByBalance(context.Background(), totals, 500, balances, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]float64{rich.Hex(): 2.0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filter mismatch: %+v != %+v", got, want)
	}
	if prices.calls != 1 {
		t.Fatalf("price must be quoted once, got %d calls", prices.calls)
	}

	if _, ok := totals[poor.Hex()]; !ok {
		t.Fatalf("input map must not be mutated")
	}
}

func TestFilterIdempotent(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	totals := map[string]float64{addr.Hex(): 1.5}
	balances := &fakeBalances{balances: map[common.Address]*big.Int{addr: wei(10)}}

	once, err := FilterByBalance(context.Background(), totals, 500, balances, &fakePrices{price: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := FilterByBalance(context.Background(), once, 500, balances, &fakePrices{price: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %+v != %+v", once, twice)
	}
}

func TestFilterBalanceLookupFailureAborts(t *testing.T) {
	totals := map[string]float64{"0x3333333333333333333333333333333333333333": 1.0}
	balances := &fakeBalances{balances: map[common.Address]*big.Int{}}

	if _, err := FilterByBalance(context.Background(), totals, 500, balances, &fakePrices{price: 100}); err == nil {
		t.Fatalf("expected error for failed balance lookup")
	}
}
