package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"profitScope/internal/model"
	"profitScope/internal/pool"
	"profitScope/internal/storage"
)

// ChainReader is the chain-RPC capability the runner needs.
type ChainReader interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, address common.Address, topic0 common.Hash) ([]types.Log, error)
	TransactionSender(ctx context.Context, txHash common.Hash) (common.Address, error)
	BalanceReader
}

// ContractInfo resolves contract metadata through an explorer API.
type ContractInfo interface {
	ContractABI(ctx context.Context, address string) (string, error)
	CreationBlock(ctx context.Context, address string) (uint64, error)
	BlockByTime(ctx context.Context, timestamp int64) (uint64, error)
}

// Progress describes one completed chunk.
type Progress struct {
	ChunkFrom  uint64
	ChunkTo    uint64
	BlocksLeft uint64
	Logs       int
}

// RunConfig holds runtime settings for one analysis.
type RunConfig struct {
	Contract       common.Address
	StartTime      *time.Time
	EndTime        *time.Time
	Mode           model.Mode
	MinBalanceFiat float64
	ChunkSize      uint64
	OnProgress     func(Progress)
}

// Runner scans a pool's swap history and writes the ranked result.
type Runner struct {
	cfg    RunConfig
	chain  ChainReader
	info   ContractInfo
	prices PriceSource
	sink   storage.Sink
	logger *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, chain ChainReader, info ContractInfo, prices PriceSource, sink storage.Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Mode == "" {
		cfg.Mode = model.ModeProfit
	}
	return &Runner{
		cfg:    cfg,
		chain:  chain,
		info:   info,
		prices: prices,
		sink:   sink,
		logger: logger,
	}
}

// Run executes the full analysis. Any fatal error aborts before the sink is
// written, so no partial output is ever produced.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain reader is nil")
	}
	if r.info == nil {
		return fmt.Errorf("contract info is nil")
	}
	if r.sink == nil {
		return fmt.Errorf("sink is nil")
	}

	contract := r.cfg.Contract.Hex()

	abiJSON, err := r.info.ContractABI(ctx, contract)
	if err != nil {
		return fmt.Errorf("contract abi: %w", err)
	}
	schema, err := pool.Classify(abiJSON)
	if err != nil {
		return err
	}
	decoder, err := pool.NewSwapDecoder(schema)
	if err != nil {
		return err
	}

	blockRange, err := r.resolveRange(ctx, contract)
	if err != nil {
		return err
	}

	r.logger.Info("analysis start",
		zap.String("contract", contract),
		zap.String("schema", schema.String()),
		zap.String("mode", string(r.cfg.Mode)),
		zap.Uint64("from", blockRange.From),
		zap.Uint64("to", blockRange.To),
	)

	ledger, err := r.scan(ctx, decoder, blockRange)
	if err != nil {
		return err
	}

	var totals map[string]float64
	switch r.cfg.Mode {
	case model.ModeBuy:
		totals = ledger.Buys()
	case model.ModeSell:
		totals = ledger.Sells()
	default:
		totals = Profit(ledger)
	}

	filtered, err := FilterByBalance(ctx, totals, r.cfg.MinBalanceFiat, r.chain, r.prices)
	if err != nil {
		return fmt.Errorf("balance filter: %w", err)
	}

	ranking := Rank(contract, r.cfg.Mode, filtered)
	if err := r.sink.WriteRanking(ctx, ranking); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}

	r.logger.Info("analysis complete",
		zap.String("contract", contract),
		zap.Int("traders", len(ranking.Entries)),
	)
	return nil
}

// resolveRange computes the scan bounds. The start never precedes the
// contract's creation block; a failed timestamp resolution degrades with a
// warning instead of aborting.
func (r *Runner) resolveRange(ctx context.Context, contract string) (BlockRange, error) {
	creation, err := r.info.CreationBlock(ctx, contract)
	if err != nil {
		return BlockRange{}, fmt.Errorf("creation block: %w", err)
	}

	from := creation
	if r.cfg.StartTime != nil {
		block, err := r.info.BlockByTime(ctx, r.cfg.StartTime.Unix())
		if err != nil {
			r.logger.Warn("start time resolution failed, using creation block", zap.Error(err))
		} else if block > from {
			from = block
		}
	}

	var to uint64
	resolved := false
	if r.cfg.EndTime != nil {
		block, err := r.info.BlockByTime(ctx, r.cfg.EndTime.Unix())
		if err != nil {
			r.logger.Warn("end time resolution failed, using latest block", zap.Error(err))
		} else {
			to = block
			resolved = true
		}
	}
	if !resolved {
		latest, err := r.chain.LatestBlockNumber(ctx)
		if err != nil {
			return BlockRange{}, fmt.Errorf("latest block: %w", err)
		}
		to = latest
	}

	return BlockRange{From: from, To: to}.Normalize(), nil
}

// scan walks the range chunk by chunk, fully consuming each chunk's logs
// before requesting the next. A failed chunk aborts the whole scan.
func (r *Runner) scan(ctx context.Context, decoder *pool.SwapDecoder, blockRange BlockRange) (*Ledger, error) {
	chunks, err := SplitRange(blockRange.From, blockRange.To, r.cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger()
	topic := decoder.Topic()

	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		logs, err := r.chain.FilterLogs(ctx, chunk.From, chunk.To, r.cfg.Contract, topic)
		if err != nil {
			return nil, &model.ScanError{From: chunk.From, To: chunk.To, Err: err}
		}

		for _, log := range logs {
			sender, err := r.chain.TransactionSender(ctx, log.TxHash)
			if err != nil {
				return nil, fmt.Errorf("sender of %s: %w", log.TxHash.Hex(), err)
			}

			swap, ok, err := decoder.Decode(log)
			if err != nil {
				return nil, fmt.Errorf("decode log %s: %w", log.TxHash.Hex(), err)
			}
			if !ok {
				continue
			}

			swap.Sender = sender.Hex()
			if err := ledger.Record(swap); err != nil {
				return nil, err
			}
		}

		r.logger.Info("chunk complete",
			zap.Uint64("from", chunk.From),
			zap.Uint64("to", chunk.To),
			zap.Int("logs", len(logs)),
			zap.Uint64("blocks_left", blockRange.To-chunk.To),
		)
		if r.cfg.OnProgress != nil {
			r.cfg.OnProgress(Progress{
				ChunkFrom:  chunk.From,
				ChunkTo:    chunk.To,
				BlocksLeft: blockRange.To - chunk.To,
				Logs:       len(logs),
			})
		}
	}

	return ledger, nil
}
