package evaluator

import (
	"fmt"
	"strings"

	"AltSentinel/internal/model"
)

// checkDominanceLow fires when the current BTC dominance is strictly
// below the configured floor.
func checkDominanceLow(in *Input) Result {
	if in.Snapshot.Market == nil {
		return Result{}
	}
	dom := in.Snapshot.Market.BTCDominance
	floor := in.Thresholds.BTCDominanceFloor
	if dom >= floor {
		return Result{Ran: true}
	}
	return Result{
		Ran:   true,
		Fired: true,
		Alert: model.AlertCondition{
			Kind: model.AlertDominanceLow,
			Message: fmt.Sprintf("BTC dominance %.2f%% is below the %.2f%% floor. Trim low-cap alts.",
				dom, floor),
			Indicators: []model.IndicatorID{model.IndicatorBTCDominance},
		},
	}
}

// checkM2Flattening fires when the normalized rate-of-change of the M2
// series over the trailing window drops below the configured epsilon.
func checkM2Flattening(in *Input) Result {
	if in.Snapshot.M2 == nil {
		return Result{}
	}
	metric, ok := in.History.FlattenMetric(model.IndicatorM2Supply, in.Thresholds.M2Window)
	if !ok {
		return Result{}
	}
	if metric >= in.Thresholds.M2FlatEpsilon {
		return Result{Ran: true}
	}
	return Result{
		Ran:   true,
		Fired: true,
		Alert: model.AlertCondition{
			Kind: model.AlertM2Flattening,
			Message: fmt.Sprintf("Global M2 is flattening: rate-of-change %.5f over the last %d observations (epsilon %.5f). Rotate out of midcaps.",
				metric, in.Thresholds.M2Window, in.Thresholds.M2FlatEpsilon),
			Indicators: []model.IndicatorID{model.IndicatorM2Supply},
		},
	}
}

// checkAltcoinPullback fires when the current altcoin market share has
// dropped to or below the configured fraction of its recent peak. The
// window must hold more than the configured minimum number of samples
// before the rule may fire, so a freshly seeded history stays quiet.
func checkAltcoinPullback(in *Input) Result {
	if in.Snapshot.Market == nil {
		return Result{}
	}
	current := in.Snapshot.Market.AltRatio()
	window := in.History.Recent(model.IndicatorAltRatio, in.Thresholds.PullbackWindow)
	if len(window) <= in.Thresholds.PullbackMinSamples {
		return Result{Ran: true}
	}
	peak, ok := in.History.Peak(model.IndicatorAltRatio, in.Thresholds.PullbackWindow)
	if !ok || peak == 0 {
		return Result{Ran: true}
	}
	if current/peak > in.Thresholds.AltPullbackRatio {
		return Result{Ran: true}
	}
	return Result{
		Ran:   true,
		Fired: true,
		Alert: model.AlertCondition{
			Kind: model.AlertAltcoinPullback,
			Message: fmt.Sprintf("Altcoin market share %.4f is down to %.0f%% of its %d-sample peak %.4f. Scale out of alts.",
				current, current/peak*100, in.Thresholds.PullbackWindow, peak),
			Indicators: []model.IndicatorID{model.IndicatorAltRatio},
		},
	}
}

// checkTrendSpike fires when enough monitored social terms appear in
// the trend feed.
func checkTrendSpike(in *Input) Result {
	if in.Snapshot.TrendHits == nil {
		return Result{}
	}
	hits := *in.Snapshot.TrendHits
	if hits < in.Thresholds.TrendHitsRequired {
		return Result{Ran: true}
	}
	return Result{
		Ran:   true,
		Fired: true,
		Alert: model.AlertCondition{
			Kind: model.AlertTrendSpike,
			Message: fmt.Sprintf("%d trending topics match monitored social terms (threshold %d). Retail hype is elevated.",
				hits, in.Thresholds.TrendHitsRequired),
			Indicators: []model.IndicatorID{model.IndicatorTrendHits},
		},
	}
}

// fullExitAlert composes the escalation alert. Sentiment and app-ranking
// context is included when those sources were available this run.
func fullExitAlert(in *Input) model.AlertCondition {
	var b strings.Builder
	b.WriteString("Multiple red flags:\n")
	fmt.Fprintf(&b, "- BTC dominance %.2f%% < %.2f%%\n",
		in.Snapshot.Market.BTCDominance, in.Thresholds.BTCDominanceFloor)
	b.WriteString("- M2 flattening\n")
	b.WriteString("- Altcoin pullback from recent peak\n")
	if in.Snapshot.FearGreed != nil {
		fmt.Fprintf(&b, "- Fear & Greed %d\n", *in.Snapshot.FearGreed)
	}
	if in.Snapshot.CoinbaseTop != nil && *in.Snapshot.CoinbaseTop {
		b.WriteString("- Coinbase ranks in the app-store top list\n")
	}
	b.WriteString("EXIT ALL crypto positions now.")

	return model.AlertCondition{
		Kind:    model.AlertFullExit,
		Message: b.String(),
		Indicators: []model.IndicatorID{
			model.IndicatorBTCDominance,
			model.IndicatorM2Supply,
			model.IndicatorAltRatio,
		},
	}
}
