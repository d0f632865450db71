package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// AppStoreFetcher reads the Apple App Store top-free ranking feed.
type AppStoreFetcher struct {
	Client *http.Client
	URL    string
}

// NewAppStoreFetcher creates a fetcher for the ranking RSS endpoint.
func NewAppStoreFetcher(url string, timeout time.Duration) *AppStoreFetcher {
	return &AppStoreFetcher{Client: newHTTPClient(timeout), URL: url}
}

// appStoreFeed is the marketing-tools RSS JSON structure.
type appStoreFeed struct {
	Feed struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	} `json:"feed"`
}

func (f *AppStoreFetcher) FetchTopApps(ctx context.Context) ([]string, error) {
	var resp appStoreFeed
	if err := fetchJSON(ctx, f.Client, f.URL, &resp); err != nil {
		return nil, fmt.Errorf("app-store: %w", err)
	}
	if len(resp.Feed.Results) == 0 {
		return nil, fmt.Errorf("app-store: empty feed")
	}
	names := make([]string, 0, len(resp.Feed.Results))
	for _, r := range resp.Feed.Results {
		names = append(names, r.Name)
	}
	return names, nil
}
