package model

// AlertKind indicates which rule produced an alert.
type AlertKind string

const (
	AlertDominanceLow    AlertKind = "DOMINANCE_LOW"
	AlertM2Flattening    AlertKind = "M2_FLATTENING"
	AlertAltcoinPullback AlertKind = "ALTCOIN_PULLBACK"
	AlertTrendSpike      AlertKind = "TREND_SPIKE"
	AlertFullExit        AlertKind = "FULL_EXIT"
)

// Title returns a human-readable heading for the alert kind.
func (k AlertKind) Title() string {
	switch k {
	case AlertDominanceLow:
		return "Trim Risky Alts"
	case AlertM2Flattening:
		return "Rotate Out of Midcaps"
	case AlertAltcoinPullback:
		return "Altcoin Pullback"
	case AlertTrendSpike:
		return "Social Trend Spike"
	case AlertFullExit:
		return "FULL EXIT SIGNAL"
	default:
		return string(k)
	}
}

// AlertCondition is one triggered rule. Produced fresh each run, never persisted.
type AlertCondition struct {
	Kind       AlertKind
	Message    string
	Indicators []IndicatorID
}
