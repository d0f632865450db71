package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"AltSentinel/internal/model"
)

// FredFetcher reads a money-supply observation series from the FRED API.
type FredFetcher struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	Series  string
}

// NewFredFetcher creates a fetcher for the M2NS series.
func NewFredFetcher(baseURL, apiKey string, timeout time.Duration) *FredFetcher {
	return &FredFetcher{
		Client:  newHTTPClient(timeout),
		BaseURL: baseURL,
		APIKey:  apiKey,
		Series:  "M2NS",
	}
}

// fredObservations is the response structure of series/observations.
type fredObservations struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func (f *FredFetcher) FetchM2(ctx context.Context) ([]model.Observation, error) {
	u := fmt.Sprintf("%s?series_id=%s&api_key=%s&file_type=json",
		f.BaseURL, url.QueryEscape(f.Series), url.QueryEscape(f.APIKey))

	var resp fredObservations
	if err := fetchJSON(ctx, f.Client, u, &resp); err != nil {
		return nil, fmt.Errorf("fred: %w", err)
	}
	if len(resp.Observations) == 0 {
		return nil, fmt.Errorf("fred: no observations returned")
	}

	obs := make([]model.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		// FRED reports missing data points as ".".
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		t, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			continue
		}
		obs = append(obs, model.Observation{Date: t, Value: v})
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("fred: no parsable observations")
	}
	return obs, nil
}
