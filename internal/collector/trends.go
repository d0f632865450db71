package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GoogleTrendsFetcher reads the Google daily trends feed.
type GoogleTrendsFetcher struct {
	Client *http.Client
	URL    string
}

// NewGoogleTrendsFetcher creates a fetcher for the daily trends endpoint.
func NewGoogleTrendsFetcher(url string, timeout time.Duration) *GoogleTrendsFetcher {
	return &GoogleTrendsFetcher{Client: newHTTPClient(timeout), URL: url}
}

// trendsResponse is the dailytrends structure, minus the anti-JSON
// prefix Google prepends to the body.
type trendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

func (f *GoogleTrendsFetcher) FetchTrendingTopics(ctx context.Context) ([]string, error) {
	u := f.URL
	if !strings.Contains(u, "?") {
		u += "?hl=en-US&tz=-480&geo=US&ns=15"
	}
	body, err := fetchBody(ctx, f.Client, u)
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}

	// The body starts with a `)]}',` guard before the JSON document.
	idx := strings.IndexByte(string(body), '{')
	if idx < 0 {
		return nil, fmt.Errorf("trends: no JSON document in response")
	}
	var resp trendsResponse
	if err := json.Unmarshal(body[idx:], &resp); err != nil {
		return nil, fmt.Errorf("trends: decode: %w", err)
	}
	if len(resp.Default.TrendingSearchesDays) == 0 {
		return nil, fmt.Errorf("trends: no trending days")
	}

	day := resp.Default.TrendingSearchesDays[0]
	topics := make([]string, 0, len(day.TrendingSearches))
	for _, s := range day.TrendingSearches {
		topics = append(topics, s.Title.Query)
	}
	return topics, nil
}

// CountTermHits returns how many topics contain at least one of the
// monitored terms, case-insensitively.
func CountTermHits(topics, terms []string) int {
	hits := 0
	for _, topic := range topics {
		lower := strings.ToLower(topic)
		for _, term := range terms {
			if strings.Contains(lower, strings.ToLower(term)) {
				hits++
				break
			}
		}
	}
	return hits
}
