package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"AltSentinel/internal/model"
)

// CoinGeckoFetcher reads the global market snapshot from the CoinGecko
// public API.
type CoinGeckoFetcher struct {
	Client *http.Client
	URL    string
}

// NewCoinGeckoFetcher creates a fetcher for the given global endpoint.
func NewCoinGeckoFetcher(url string, timeout time.Duration) *CoinGeckoFetcher {
	return &CoinGeckoFetcher{Client: newHTTPClient(timeout), URL: url}
}

// coinGeckoGlobal is the response structure of /api/v3/global.
type coinGeckoGlobal struct {
	Data struct {
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
	} `json:"data"`
}

func (f *CoinGeckoFetcher) FetchGlobal(ctx context.Context) (*model.GlobalMarket, error) {
	var resp coinGeckoGlobal
	if err := fetchJSON(ctx, f.Client, f.URL, &resp); err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	btc, okBTC := resp.Data.MarketCapPercentage["btc"]
	eth, okETH := resp.Data.MarketCapPercentage["eth"]
	total, okTotal := resp.Data.TotalMarketCap["usd"]
	if !okBTC || !okETH || !okTotal {
		return nil, fmt.Errorf("coingecko: unexpected schema, missing btc/eth/usd fields")
	}

	return &model.GlobalMarket{
		BTCDominance:      btc,
		ETHDominance:      eth,
		TotalMarketCapUSD: total,
	}, nil
}
