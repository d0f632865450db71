package model

import "time"

// GlobalMarket holds the CoinGecko global market snapshot.
type GlobalMarket struct {
	BTCDominance      float64 // percentage, 0~100
	ETHDominance      float64 // percentage, 0~100
	TotalMarketCapUSD float64
}

// AltRatio returns the share of total market cap held by everything
// except BTC and ETH, as a 0~1 fraction.
func (g GlobalMarket) AltRatio() float64 {
	return (100 - g.BTCDominance - g.ETHDominance) / 100
}

// Observation is one dated point of an external economic series.
type Observation struct {
	Date  time.Time
	Value float64
}

// Snapshot holds everything fetched during one run. A nil field means
// that source was unavailable this run; checks depending on it are
// skipped, not evaluated as false.
type Snapshot struct {
	FetchedAt time.Time
	Market    *GlobalMarket
	M2        []Observation
	FearGreed *int
	TrendHits *int
	// CoinbaseTop reports whether the Coinbase app appears in the
	// app-ranking feed; context for the full-exit section only.
	CoinbaseTop *bool
}
