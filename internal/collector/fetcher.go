package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"AltSentinel/internal/model"
)

// MarketFetcher fetches the global market dominance snapshot.
type MarketFetcher interface {
	FetchGlobal(ctx context.Context) (*model.GlobalMarket, error)
}

// M2Fetcher fetches the money-supply observation series.
type M2Fetcher interface {
	FetchM2(ctx context.Context) ([]model.Observation, error)
}

// SentimentFetcher fetches the Fear & Greed index value.
type SentimentFetcher interface {
	FetchFearGreed(ctx context.Context) (int, error)
}

// TrendsFetcher fetches the current trending search topics.
type TrendsFetcher interface {
	FetchTrendingTopics(ctx context.Context) ([]string, error)
}

// RankingFetcher fetches the app-ranking feed entries.
type RankingFetcher interface {
	FetchTopApps(ctx context.Context) ([]string, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// fetchBody performs a single GET and returns the response body.
func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// fetchJSON performs a single GET and decodes the JSON response into v.
func fetchJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	body, err := fetchBody(ctx, client, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
