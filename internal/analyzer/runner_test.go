package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"profitScope/internal/model"
	"profitScope/internal/pool"
)

const v3ABIStub = `[{"inputs":[{"name":"sqrtPriceX96"},{"name":"tick"},{"name":"liquidity"}],"name":"Swap","type":"event"}]`

type fakeChain struct {
	latest     uint64
	logs       []types.Log
	sender     common.Address
	filterErr  error
	filterCall int
}

func (f *fakeChain) LatestBlockNumber(context.Context) (uint64, error) {
	return f.latest, nil
}

func (f *fakeChain) FilterLogs(_ context.Context, from, to uint64, _ common.Address, _ common.Hash) ([]types.Log, error) {
	f.filterCall++
	if f.filterErr != nil {
		return nil, f.filterErr
	}
	matched := make([]types.Log, 0, len(f.logs))
	for _, log := range f.logs {
		if log.BlockNumber >= from && log.BlockNumber <= to {
			matched = append(matched, log)
		}
	}
	return matched, nil
}

func (f *fakeChain) TransactionSender(context.Context, common.Hash) (common.Address, error) {
	return f.sender, nil
}

func (f *fakeChain) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	return wei(100), nil
}

type fakeInfo struct {
	abiJSON  string
	creation uint64
}

func (f *fakeInfo) ContractABI(context.Context, string) (string, error) {
	return f.abiJSON, nil
}

func (f *fakeInfo) CreationBlock(context.Context, string) (uint64, error) {
	return f.creation, nil
}

func (f *fakeInfo) BlockByTime(context.Context, int64) (uint64, error) {
	return 0, fmt.Errorf("not resolved")
}

type fakeSink struct {
	rankings []model.Ranking
}

func (f *fakeSink) WriteRanking(_ context.Context, ranking model.Ranking) error {
	f.rankings = append(f.rankings, ranking)
	return nil
}

func v3SwapLog(t *testing.T, blockNumber uint64, amount1 *big.Int) types.Log {
	t.Helper()
	poolABI, err := pool.V3PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	data, err := poolABI.Events["Swap"].Inputs.NonIndexed().Pack(
		big.NewInt(-1),
		amount1,
		big.NewInt(1),
		big.NewInt(1),
		big.NewInt(0),
		big.NewInt(0),
		big.NewInt(0),
	)
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}
	return types.Log{
		Topics: []common.Hash{
			poolABI.Events["Swap"].ID,
			common.HexToHash("0x01"),
			common.HexToHash("0x02"),
		},
		Data:        data,
		TxHash:      common.HexToHash("0x0aaa"),
		BlockNumber: blockNumber,
	}
}

func TestRunnerSingleBlockBuy(t *testing.T) {
	sender := common.HexToAddress("0x0000000000000000000000000000000000000abc")
	oneNative := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	chain := &fakeChain{
		latest: 1000,
		logs:   []types.Log{v3SwapLog(t, 1000, oneNative)},
		sender: sender,
	}
	info := &fakeInfo{abiJSON: v3ABIStub, creation: 1000}
	sink := &fakeSink{}

	// Default profit mode: a buy with no sell yields an empty ranking.
	runner := NewRunner(RunConfig{
		Contract: common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}, chain, info, &fakePrices{price: 100}, sink, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.rankings) != 1 {
		t.Fatalf("expected one ranking, got %d", len(sink.rankings))
	}
	if len(sink.rankings[0].Entries) != 0 {
		t.Fatalf("profit ranking must be empty: %+v", sink.rankings[0].Entries)
	}

	// Buy mode surfaces the same swap as {sender: 1.0}.
	sink = &fakeSink{}
	runner = NewRunner(RunConfig{
		Contract: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Mode:     model.ModeBuy,
	}, chain, info, &fakePrices{price: 100}, sink, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	entries := sink.rankings[0].Entries
	if len(entries) != 1 || entries[0].Address != sender.Hex() || entries[0].Value != 1.0 {
		t.Fatalf("buy ranking mismatch: %+v", entries)
	}
}

func TestRunnerUnsupportedPoolAborts(t *testing.T) {
	chain := &fakeChain{latest: 1000}
	info := &fakeInfo{abiJSON: `[{"name":"Transfer"}]`, creation: 1}
	sink := &fakeSink{}

	runner := NewRunner(RunConfig{
		Contract: common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}, chain, info, &fakePrices{price: 100}, sink, nil)

	err := runner.Run(context.Background())
	if !errors.Is(err, model.ErrUnsupportedPool) {
		t.Fatalf("expected ErrUnsupportedPool, got %v", err)
	}
	if len(sink.rankings) != 0 {
		t.Fatalf("no output must be produced on abort")
	}
}

func TestRunnerScanFailureAborts(t *testing.T) {
	chain := &fakeChain{
		latest:    5000,
		filterErr: fmt.Errorf("provider limit"),
	}
	info := &fakeInfo{abiJSON: v3ABIStub, creation: 1000}
	sink := &fakeSink{}

	runner := NewRunner(RunConfig{
		Contract: common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}, chain, info, &fakePrices{price: 100}, sink, nil)

	err := runner.Run(context.Background())
	var scanErr *model.ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected ScanError, got %v", err)
	}
	if scanErr.From != 1000 {
		t.Fatalf("chunk bounds mismatch: %+v", scanErr)
	}
	if chain.filterCall != 1 {
		t.Fatalf("scan must abort on first failed chunk, got %d calls", chain.filterCall)
	}
	if len(sink.rankings) != 0 {
		t.Fatalf("no output must be produced on abort")
	}
}

func TestRunnerProgressCallback(t *testing.T) {
	chain := &fakeChain{latest: 4999, sender: common.HexToAddress("0xabc")}
	info := &fakeInfo{abiJSON: v3ABIStub, creation: 1000}
	sink := &fakeSink{}

	var updates []Progress
	runner := NewRunner(RunConfig{
		Contract: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		OnProgress: func(p Progress) {
			updates = append(updates, p)
		},
	}, chain, info, &fakePrices{price: 100}, sink, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(updates) != 2 {
		t.Fatalf("expected 2 chunk updates, got %d", len(updates))
	}
	if updates[0].ChunkFrom != 1000 || updates[0].ChunkTo != 2999 {
		t.Fatalf("first chunk mismatch: %+v", updates[0])
	}
	if updates[len(updates)-1].BlocksLeft != 0 {
		t.Fatalf("final update must have zero blocks left: %+v", updates[len(updates)-1])
	}
}
