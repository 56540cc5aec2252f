// Package pricing fetches a fiat quote for the chain's native asset from a
// CoinGecko-style price API.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client queries the simple-price endpoint for one asset.
type Client struct {
	baseURL    string
	assetID    string
	vsCurrency string
	httpClient *http.Client
}

// NewClient builds a price client. assetID is the API's identifier for the
// native asset (e.g. "binancecoin"), vsCurrency the fiat quote currency.
func NewClient(baseURL, assetID, vsCurrency string) *Client {
	return &Client{
		baseURL:    baseURL,
		assetID:    assetID,
		vsCurrency: vsCurrency,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NativeAssetPrice returns the current fiat price of one native-asset unit.
func (c *Client) NativeAssetPrice(ctx context.Context) (float64, error) {
	params := url.Values{}
	params.Set("ids", c.assetID)
	params.Set("vs_currencies", c.vsCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("price request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price request: http status %d", resp.StatusCode)
	}

	var quotes map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return 0, fmt.Errorf("decode price response: %w", err)
	}

	price, ok := quotes[c.assetID][c.vsCurrency]
	if !ok {
		return 0, fmt.Errorf("price missing for %s/%s", c.assetID, c.vsCurrency)
	}
	return price, nil
}
