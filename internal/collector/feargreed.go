package collector

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// FearGreedFetcher reads the crypto Fear & Greed index.
type FearGreedFetcher struct {
	Client *http.Client
	URL    string
}

// NewFearGreedFetcher creates a fetcher for the sentiment endpoint.
func NewFearGreedFetcher(url string, timeout time.Duration) *FearGreedFetcher {
	return &FearGreedFetcher{Client: newHTTPClient(timeout), URL: url}
}

// fearGreedResponse is the alternative.me response structure. The index
// value is serialized as a string.
type fearGreedResponse struct {
	Data []struct {
		Value string `json:"value"`
	} `json:"data"`
}

func (f *FearGreedFetcher) FetchFearGreed(ctx context.Context) (int, error) {
	var resp fearGreedResponse
	if err := fetchJSON(ctx, f.Client, f.URL, &resp); err != nil {
		return 0, fmt.Errorf("fear-greed: %w", err)
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("fear-greed: empty data")
	}
	v, err := strconv.Atoi(resp.Data[0].Value)
	if err != nil {
		return 0, fmt.Errorf("fear-greed: bad value %q: %w", resp.Data[0].Value, err)
	}
	return v, nil
}
