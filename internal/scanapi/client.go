// Package scanapi queries a BscScan-style explorer REST API for contract
// metadata the chain RPC does not expose: verified ABIs, creation
// transactions, and block numbers by timestamp.
package scanapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Client talks to an explorer API endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the given API base URL and key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope is the explorer's module/action response wrapper. Status "1"
// means success; anything else carries the failure in Message.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// ContractABI returns the verified ABI text of a contract.
func (c *Client) ContractABI(ctx context.Context, address string) (string, error) {
	params := url.Values{}
	params.Set("module", "contract")
	params.Set("action", "getabi")
	params.Set("address", address)

	result, err := c.query(ctx, params)
	if err != nil {
		return "", fmt.Errorf("get abi: %w", err)
	}

	var abiJSON string
	if err := json.Unmarshal(result, &abiJSON); err != nil {
		return "", fmt.Errorf("get abi: decode result: %w", err)
	}
	return abiJSON, nil
}

// CreationBlock returns the block in which a contract was deployed. The
// explorer only exposes the creation transaction hash, so the block number
// comes from a follow-up proxy lookup of that transaction.
func (c *Client) CreationBlock(ctx context.Context, address string) (uint64, error) {
	params := url.Values{}
	params.Set("module", "contract")
	params.Set("action", "getcontractcreation")
	params.Set("contractaddresses", address)

	result, err := c.query(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("get creation tx: %w", err)
	}

	var creations []struct {
		TxHash string `json:"txHash"`
	}
	if err := json.Unmarshal(result, &creations); err != nil {
		return 0, fmt.Errorf("get creation tx: decode result: %w", err)
	}
	if len(creations) == 0 || creations[0].TxHash == "" {
		return 0, fmt.Errorf("get creation tx: empty result for %s", address)
	}

	return c.transactionBlock(ctx, creations[0].TxHash)
}

// BlockByTime resolves a unix timestamp to the closest block before it.
func (c *Client) BlockByTime(ctx context.Context, timestamp int64) (uint64, error) {
	params := url.Values{}
	params.Set("module", "block")
	params.Set("action", "getblocknobytime")
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	params.Set("closest", "before")

	result, err := c.query(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("block by time: %w", err)
	}

	var blockText string
	if err := json.Unmarshal(result, &blockText); err != nil {
		return 0, fmt.Errorf("block by time: decode result: %w", err)
	}
	block, err := strconv.ParseUint(blockText, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("block by time: parse %q: %w", blockText, err)
	}
	return block, nil
}

func (c *Client) transactionBlock(ctx context.Context, txHash string) (uint64, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getTransactionByHash")
	params.Set("txhash", txHash)

	body, err := c.get(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("get creation block: %w", err)
	}

	// Proxy actions return a raw JSON-RPC response, not the status envelope.
	var response struct {
		Result *struct {
			BlockNumber string `json:"blockNumber"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("get creation block: decode result: %w", err)
	}
	if response.Result == nil || response.Result.BlockNumber == "" {
		return 0, fmt.Errorf("get creation block: transaction not found: %s", txHash)
	}

	block, err := hexutil.DecodeUint64(response.Result.BlockNumber)
	if err != nil {
		return 0, fmt.Errorf("get creation block: parse %q: %w", response.Result.BlockNumber, err)
	}
	return block, nil
}

func (c *Client) query(ctx context.Context, params url.Values) (json.RawMessage, error) {
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Status != "1" {
		return nil, fmt.Errorf("api error: %s", env.Message)
	}
	return env.Result, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
