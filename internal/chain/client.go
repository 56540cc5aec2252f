package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps go-ethereum RPC and provides helper methods.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client

	mu          sync.RWMutex
	senderCache map[common.Hash]common.Address
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient:   rpcClient,
		ethClient:   ethclient.NewClient(rpcClient),
		senderCache: make(map[common.Hash]common.Address),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

// FilterLogs returns logs within the given range for one contract address
// and topic0.
func (c *Client) FilterLogs(
	ctx context.Context,
	fromBlock uint64,
	toBlock uint64,
	address common.Address,
	topic0 common.Hash,
) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{address},
		Topics:    [][]common.Hash{{topic0}},
	}
	return c.ethClient.FilterLogs(ctx, query)
}

// TransactionSender returns the origin address of a transaction, using an
// in-memory cache. Sender identity comes from the transaction itself, not
// from event topics.
func (c *Client) TransactionSender(ctx context.Context, txHash common.Hash) (common.Address, error) {
	c.mu.RLock()
	sender, ok := c.senderCache[txHash]
	c.mu.RUnlock()
	if ok {
		return sender, nil
	}

	var result *struct {
		From common.Address `json:"from"`
	}
	if err := c.rpcClient.CallContext(ctx, &result, "eth_getTransactionByHash", txHash); err != nil {
		return common.Address{}, err
	}
	if result == nil {
		return common.Address{}, fmt.Errorf("transaction not found: %s", txHash.Hex())
	}

	c.mu.Lock()
	c.senderCache[txHash] = result.From
	c.mu.Unlock()

	return result.From, nil
}

// BalanceAt returns the current native-asset balance of an address in wei.
func (c *Client) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	return c.ethClient.BalanceAt(ctx, address, nil)
}
