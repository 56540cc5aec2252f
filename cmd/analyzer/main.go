package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"profitScope/internal/analyzer"
	"profitScope/internal/chain"
	"profitScope/internal/config"
	"profitScope/internal/model"
	"profitScope/internal/pricing"
	"profitScope/internal/scanapi"
	"profitScope/internal/storage"
	"profitScope/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "analyzer",
		Short:        "Pool trader profit analyzer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Scan a pool's swap history and rank its traders",
		RunE:  runAnalysis,
	}

	runCmd.Flags().String("rpc", "", "chain RPC URL")
	runCmd.Flags().String("scan-api", "https://api.bscscan.com/api", "explorer API base URL")
	runCmd.Flags().String("scan-api-key", "", "explorer API key")
	runCmd.Flags().String("price-api", "https://api.coingecko.com/api/v3", "price API base URL")
	runCmd.Flags().String("price-asset", "binancecoin", "price API id of the native asset")
	runCmd.Flags().String("price-currency", "usd", "fiat quote currency")
	runCmd.Flags().String("contract", "", "pool contract address")
	runCmd.Flags().String("start", "", "start time (unix seconds or RFC3339), empty means creation block")
	runCmd.Flags().String("end", "", "end time (unix seconds or RFC3339), empty means latest block")
	runCmd.Flags().String("mode", "profit", "view to produce (profit, buy, sell)")
	runCmd.Flags().Float64("min-balance", 0, "minimum fiat balance to keep a trader, 0 disables the filter")
	runCmd.Flags().Uint64("chunk-size", 2000, "blocks per log query")
	runCmd.Flags().String("out", "./data", "output directory for ranking JSON")
	runCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the ranking store")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalysis(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Contract) {
		return fmt.Errorf("invalid contract address: %s", cfg.Contract)
	}

	mode, err := model.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	startTime, err := config.ParseTime(cfg.Start)
	if err != nil {
		return fmt.Errorf("parse start: %w", err)
	}
	endTime, err := config.ParseTime(cfg.End)
	if err != nil {
		return fmt.Errorf("parse end: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	var sink storage.Sink
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sink = store
	} else {
		sink = storage.NewJSONSink(cfg.Out)
	}

	runner := analyzer.NewRunner(analyzer.RunConfig{
		Contract:       common.HexToAddress(cfg.Contract),
		StartTime:      startTime,
		EndTime:        endTime,
		Mode:           mode,
		MinBalanceFiat: cfg.MinBalance,
		ChunkSize:      cfg.ChunkSize,
	},
		chainClient,
		scanapi.NewClient(cfg.ScanAPIURL, cfg.ScanAPIKey),
		pricing.NewClient(cfg.PriceAPIURL, cfg.PriceAssetID, cfg.PriceCurrency),
		sink,
		logger,
	)

	logger.Info("analyzer start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("contract", cfg.Contract),
		zap.String("mode", string(mode)),
		zap.Float64("min_balance", cfg.MinBalance),
		zap.Uint64("chunk_size", cfg.ChunkSize),
		zap.String("out", cfg.Out),
		zap.Bool("pg", cfg.PGDSN != ""),
	)

	return runner.Run(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
