package evaluator

import (
	"AltSentinel/internal/config"
	"AltSentinel/internal/history"
	"AltSentinel/internal/model"
)

// Input bundles everything one run's checks may inspect.
type Input struct {
	Snapshot   *model.Snapshot
	History    *history.Store
	Thresholds config.ThresholdConfig
}

// Result is one check's outcome. Ran is false when the source the check
// depends on was unavailable this run; a skipped check neither fires nor
// blocks independent checks.
type Result struct {
	Ran   bool
	Fired bool
	Alert model.AlertCondition
}

// Evaluate applies the fixed list of checks to one run's values and
// returns all triggered alerts, full-exit last.
func Evaluate(in *Input) []model.AlertCondition {
	dom := checkDominanceLow(in)
	m2 := checkM2Flattening(in)
	pull := checkAltcoinPullback(in)
	trend := checkTrendSpike(in)

	var alerts []model.AlertCondition
	for _, r := range []Result{dom, m2, pull, trend} {
		if r.Ran && r.Fired {
			alerts = append(alerts, r.Alert)
		}
	}

	// Full exit is the conjunction of the three primary checks. Each must
	// have actually run; a skipped prerequisite keeps the escalation off
	// even when the other two fired.
	if dom.Ran && dom.Fired && m2.Ran && m2.Fired && pull.Ran && pull.Fired {
		alerts = append(alerts, fullExitAlert(in))
	}

	return alerts
}
