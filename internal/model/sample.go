package model

import "time"

// IndicatorID identifies one tracked time series in the history store.
type IndicatorID string

const (
	IndicatorBTCDominance IndicatorID = "btc_dominance"
	IndicatorETHDominance IndicatorID = "eth_dominance"
	IndicatorAltRatio     IndicatorID = "alt_ratio"
	IndicatorM2Supply     IndicatorID = "m2_supply"
	IndicatorFearGreed    IndicatorID = "fear_greed"
	IndicatorTrendHits    IndicatorID = "trend_hits"
)

// IndicatorSample is a single observed value. Immutable once recorded.
type IndicatorSample struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}
