package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"AltSentinel/internal/collector"
	"AltSentinel/internal/config"
	"AltSentinel/internal/history"
	"AltSentinel/internal/model"
	"AltSentinel/internal/notifier"
)

type fakeNotifier struct {
	sent []*notifier.Message
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, msg *notifier.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeRenderer struct {
	png []byte
	err error
}

func (f *fakeRenderer) Render(_ model.IndicatorID, _ []model.IndicatorSample) ([]byte, error) {
	return f.png, f.err
}

func testConfig(historyFile string) *config.Config {
	cfg := &config.Config{}
	cfg.Thresholds = config.ThresholdConfig{
		BTCDominanceFloor:  45.0,
		M2FlatEpsilon:      0.001,
		AltPullbackRatio:   0.90,
		TrendHitsRequired:  2,
		M2Window:           3,
		PullbackWindow:     30,
		PullbackMinSamples: 5,
	}
	cfg.History = config.HistoryConfig{File: historyFile, MaxEntries: 90}
	return cfg
}

func quietCollector() *collector.Collector {
	return &collector.Collector{
		Market:    &collector.MockMarketFetcher{Market: &model.GlobalMarket{BTCDominance: 55, ETHDominance: 15, TotalMarketCapUSD: 3e12}},
		M2:        &collector.MockM2Fetcher{Obs: []model.Observation{{Date: time.Now().UTC(), Value: 21800}}},
		Sentiment: &collector.MockSentimentFetcher{Value: 50},
		Trends:    &collector.MockTrendsFetcher{Topics: []string{"weather tomorrow"}},
		Ranking:   &collector.MockRankingFetcher{Apps: []string{"TikTok"}},
		Terms:     []string{"bitcoin"},
	}
}

func TestRun_QuietMarketSendsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	hist, err := history.Load(path, 90)
	if err != nil {
		t.Fatal(err)
	}
	fn := &fakeNotifier{}
	r := New(quietCollector(), hist, &fakeRenderer{png: []byte("png")}, fn, testConfig(path))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(fn.sent) != 0 {
		t.Error("quiet run must not send mail")
	}

	// Samples were still recorded and persisted.
	reloaded, err := history.Load(path, 90)
	if err != nil {
		t.Fatalf("reload history: %v", err)
	}
	for _, id := range []model.IndicatorID{
		model.IndicatorBTCDominance,
		model.IndicatorETHDominance,
		model.IndicatorAltRatio,
		model.IndicatorM2Supply,
		model.IndicatorFearGreed,
		model.IndicatorTrendHits,
	} {
		if reloaded.Len(id) == 0 {
			t.Errorf("indicator %s not persisted", id)
		}
	}
}

func alertingSetup(t *testing.T) (*history.Store, *collector.Collector, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	hist, err := history.Load(path, 90)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []float64{0.48, 0.49, 0.50, 0.47, 0.46, 0.45} {
		hist.Append(model.IndicatorAltRatio, model.IndicatorSample{Time: base.AddDate(0, 0, i), Value: v})
	}
	for i, v := range []float64{21000, 21000.5} {
		hist.Append(model.IndicatorM2Supply, model.IndicatorSample{Time: base.AddDate(0, 0, i*30), Value: v})
	}

	col := quietCollector()
	// Dominance below floor, alt share at 85% of its recent peak,
	// and a flat third M2 observation.
	col.Market = &collector.MockMarketFetcher{Market: &model.GlobalMarket{
		BTCDominance:      42.0,
		ETHDominance:      100 - 42.0 - 42.5,
		TotalMarketCapUSD: 3e12,
	}}
	col.M2 = &collector.MockM2Fetcher{Obs: []model.Observation{
		{Date: base.AddDate(0, 0, 60), Value: 21001},
	}}
	return hist, col, path
}

func TestRun_AlertsComposeOneMail(t *testing.T) {
	hist, col, path := alertingSetup(t)
	fn := &fakeNotifier{}
	r := New(col, hist, &fakeRenderer{png: []byte{0x89, 'P', 'N', 'G'}}, fn, testConfig(path))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(fn.sent) != 1 {
		t.Fatalf("expected exactly one mail, got %d", len(fn.sent))
	}

	msg := fn.sent[0]
	if !strings.Contains(msg.Subject, "FULL EXIT SIGNAL") {
		t.Errorf("expected full exit subject, got %q", msg.Subject)
	}
	for _, title := range []string{"Trim Risky Alts", "Rotate Out of Midcaps", "Altcoin Pullback", "FULL EXIT SIGNAL"} {
		if !strings.Contains(msg.Text, title) {
			t.Errorf("mail body missing section %q", title)
		}
	}
	if len(msg.Inline) == 0 {
		t.Error("expected embedded charts for alerting indicators")
	}
}

func TestRun_NotifyFailureIsFatalButHistoryKept(t *testing.T) {
	hist, col, path := alertingSetup(t)
	fn := &fakeNotifier{err: errors.New("smtp down")}
	cfg := testConfig(path)
	r := New(col, hist, &fakeRenderer{err: errors.New("no chart")}, fn, cfg)

	err := r.Run(context.Background())
	if err == nil {
		t.Fatal("delivery failure must fail the run")
	}

	// History was persisted before the notify step.
	reloaded, lerr := history.Load(path, 90)
	if lerr != nil {
		t.Fatalf("reload history: %v", lerr)
	}
	if reloaded.Len(model.IndicatorBTCDominance) != 1 {
		t.Error("samples recorded this run must survive a notify failure")
	}
	if reloaded.Len(model.IndicatorAltRatio) != 7 {
		t.Errorf("expected 7 alt ratio samples, got %d", reloaded.Len(model.IndicatorAltRatio))
	}
}

func TestRecord_M2AppendsOnlyNewObservations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	hist, err := history.Load(path, 90)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	hist.Append(model.IndicatorM2Supply, model.IndicatorSample{Time: base.AddDate(0, 1, 0), Value: 21100})

	col := quietCollector()
	col.M2 = &collector.MockM2Fetcher{Obs: []model.Observation{
		{Date: base, Value: 21000},               // older than stored: skipped
		{Date: base.AddDate(0, 1, 0), Value: 21100}, // same date: skipped
		{Date: base.AddDate(0, 2, 0), Value: 21200}, // new: appended
	}}
	r := New(col, hist, &fakeRenderer{png: []byte("png")}, &fakeNotifier{}, testConfig(path))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := hist.Recent(model.IndicatorM2Supply, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 M2 samples, got %d", len(got))
	}
	if got[1].Value != 21200 {
		t.Errorf("expected newest observation appended, got %.0f", got[1].Value)
	}
}
