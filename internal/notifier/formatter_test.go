package notifier

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"AltSentinel/internal/history"
	"AltSentinel/internal/model"
)

func testStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Load(filepath.Join(t.TempDir(), "history.json"), 90)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	s.Append(model.IndicatorBTCDominance, model.IndicatorSample{
		Time:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Value: 43.21,
	})
	return s
}

func TestCompose_SectionPerKindWithChart(t *testing.T) {
	alerts := []model.AlertCondition{
		{
			Kind:       model.AlertDominanceLow,
			Message:    "BTC dominance 43.21% is below the 45.00% floor.",
			Indicators: []model.IndicatorID{model.IndicatorBTCDominance},
		},
		{
			Kind:       model.AlertTrendSpike,
			Message:    "3 trending topics match monitored social terms.",
			Indicators: []model.IndicatorID{model.IndicatorTrendHits},
		},
	}
	charts := map[model.IndicatorID][]byte{
		model.IndicatorBTCDominance: []byte("fake-png"),
	}

	msg := Compose(alerts, charts, testStore(t))

	if !strings.Contains(msg.Subject, "2 signals") {
		t.Errorf("subject should count signals: %q", msg.Subject)
	}
	for _, title := range []string{"Trim Risky Alts", "Social Trend Spike"} {
		if !strings.Contains(msg.Text, title) || !strings.Contains(msg.HTML, title) {
			t.Errorf("both bodies must contain section %q", title)
		}
	}

	// Dominance has a chart: embedded inline and referenced by cid.
	name := ChartName(model.IndicatorBTCDominance)
	if _, ok := msg.Inline[name]; !ok {
		t.Errorf("chart %s not embedded", name)
	}
	if !strings.Contains(msg.HTML, "cid:"+name) {
		t.Error("HTML body must reference the embedded chart")
	}

	// Trend hits has no chart: text fallback with the latest value.
	if !strings.Contains(msg.Text, "trend_hits: no recorded samples") {
		t.Errorf("expected text fallback for unplotted indicator:\n%s", msg.Text)
	}
}

func TestCompose_TextFallbackUsesLatestSample(t *testing.T) {
	alerts := []model.AlertCondition{{
		Kind:       model.AlertDominanceLow,
		Message:    "BTC dominance below floor.",
		Indicators: []model.IndicatorID{model.IndicatorBTCDominance},
	}}

	msg := Compose(alerts, nil, testStore(t))
	if len(msg.Inline) != 0 {
		t.Error("no charts were rendered, nothing may be embedded")
	}
	if !strings.Contains(msg.Text, "latest 43.2100 at 2025-06-10") {
		t.Errorf("fallback should cite the latest sample:\n%s", msg.Text)
	}
}

func TestCompose_FullExitSubject(t *testing.T) {
	alerts := []model.AlertCondition{
		{Kind: model.AlertDominanceLow, Message: "dom"},
		{Kind: model.AlertFullExit, Message: "exit"},
	}
	msg := Compose(alerts, nil, testStore(t))
	if !strings.Contains(msg.Subject, "FULL EXIT SIGNAL") {
		t.Errorf("full exit must dominate the subject: %q", msg.Subject)
	}
}

func TestCompose_SingleAlertSubject(t *testing.T) {
	alerts := []model.AlertCondition{{Kind: model.AlertAltcoinPullback, Message: "pullback"}}
	msg := Compose(alerts, nil, testStore(t))
	if !strings.Contains(msg.Subject, "Altcoin Pullback") {
		t.Errorf("single alert subject should name the alert: %q", msg.Subject)
	}
}

func TestCompose_EscapesHTML(t *testing.T) {
	alerts := []model.AlertCondition{{
		Kind:    model.AlertM2Flattening,
		Message: "rate < epsilon",
	}}
	msg := Compose(alerts, nil, testStore(t))
	if !strings.Contains(msg.HTML, "rate &lt; epsilon") {
		t.Error("HTML body must escape message content")
	}
}
