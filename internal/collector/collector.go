package collector

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"AltSentinel/internal/model"
)

// MockMarketFetcher returns controllable fixed data for development and testing.
type MockMarketFetcher struct {
	Market *model.GlobalMarket
	Err    error
}

func (m *MockMarketFetcher) FetchGlobal(_ context.Context) (*model.GlobalMarket, error) {
	return m.Market, m.Err
}

// MockM2Fetcher returns a fixed observation series.
type MockM2Fetcher struct {
	Obs []model.Observation
	Err error
}

func (m *MockM2Fetcher) FetchM2(_ context.Context) ([]model.Observation, error) {
	return m.Obs, m.Err
}

// MockSentimentFetcher returns a fixed index value.
type MockSentimentFetcher struct {
	Value int
	Err   error
}

func (m *MockSentimentFetcher) FetchFearGreed(_ context.Context) (int, error) {
	return m.Value, m.Err
}

// MockTrendsFetcher returns fixed trending topics.
type MockTrendsFetcher struct {
	Topics []string
	Err    error
}

func (m *MockTrendsFetcher) FetchTrendingTopics(_ context.Context) ([]string, error) {
	return m.Topics, m.Err
}

// MockRankingFetcher returns fixed app names.
type MockRankingFetcher struct {
	Apps []string
	Err  error
}

func (m *MockRankingFetcher) FetchTopApps(_ context.Context) ([]string, error) {
	return m.Apps, m.Err
}

// Collector runs every fetcher sequentially and assembles one run's
// snapshot. A failed fetch leaves its snapshot field nil; the run is
// never aborted by a single unavailable source.
type Collector struct {
	Market    MarketFetcher
	M2        M2Fetcher
	Sentiment SentimentFetcher
	Trends    TrendsFetcher
	Ranking   RankingFetcher
	Terms     []string
}

// Collect fetches all sources for one run.
func (c *Collector) Collect(ctx context.Context) *model.Snapshot {
	snap := &model.Snapshot{FetchedAt: time.Now().UTC()}

	if market, err := c.Market.FetchGlobal(ctx); err != nil {
		log.Warn().Err(err).Msg("global market unavailable this run")
	} else {
		snap.Market = market
	}

	if obs, err := c.M2.FetchM2(ctx); err != nil {
		log.Warn().Err(err).Msg("M2 series unavailable this run")
	} else {
		snap.M2 = obs
	}

	if v, err := c.Sentiment.FetchFearGreed(ctx); err != nil {
		log.Warn().Err(err).Msg("fear & greed index unavailable this run")
	} else {
		snap.FearGreed = &v
	}

	if topics, err := c.Trends.FetchTrendingTopics(ctx); err != nil {
		log.Warn().Err(err).Msg("trends feed unavailable this run")
	} else {
		hits := CountTermHits(topics, c.Terms)
		snap.TrendHits = &hits
	}

	if apps, err := c.Ranking.FetchTopApps(ctx); err != nil {
		log.Warn().Err(err).Msg("app ranking feed unavailable this run")
	} else {
		top := containsCoinbase(apps)
		snap.CoinbaseTop = &top
	}

	return snap
}

func containsCoinbase(apps []string) bool {
	for _, name := range apps {
		if strings.Contains(strings.ToLower(name), "coinbase") {
			return true
		}
	}
	return false
}
