package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"AltSentinel/internal/collector"
	"AltSentinel/internal/config"
	"AltSentinel/internal/evaluator"
	"AltSentinel/internal/history"
	"AltSentinel/internal/model"
	"AltSentinel/internal/notifier"
)

// ChartRenderer renders one indicator series to an image.
type ChartRenderer interface {
	Render(id model.IndicatorID, samples []model.IndicatorSample) ([]byte, error)
}

// Runner executes one monitoring pass: fetch, record, persist, evaluate,
// and notify if anything fired. Run is serialized so the history file
// keeps a single writer in watch mode.
type Runner struct {
	mu        sync.Mutex
	Collector *collector.Collector
	History   *history.Store
	Renderer  ChartRenderer
	Notifier  notifier.Notifier
	Cfg       *config.Config
}

// New creates a Runner.
func New(col *collector.Collector, hist *history.Store, renderer ChartRenderer, n notifier.Notifier, cfg *config.Config) *Runner {
	return &Runner{
		Collector: col,
		History:   hist,
		Renderer:  renderer,
		Notifier:  n,
		Cfg:       cfg,
	}
}

// Run performs a single monitoring pass. History is persisted before
// notification, so a delivery failure never loses recorded samples.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.Collector.Collect(ctx)
	r.record(snap)
	if err := r.History.Save(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	alerts := evaluator.Evaluate(&evaluator.Input{
		Snapshot:   snap,
		History:    r.History,
		Thresholds: r.Cfg.Thresholds,
	})

	fmt.Printf("%s | Triggers: %s\n", time.Now().UTC().Format(time.RFC3339), triggerSummary(alerts))
	log.Info().Int("alerts", len(alerts)).Msg("run evaluated")

	if len(alerts) == 0 {
		return nil
	}

	charts := r.renderCharts(alerts)
	msg := notifier.Compose(alerts, charts, r.History)
	if err := r.Notifier.Notify(ctx, msg); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// record appends this run's fetched values to the history store.
// Unavailable sources are simply not recorded.
func (r *Runner) record(snap *model.Snapshot) {
	now := snap.FetchedAt

	if snap.Market != nil {
		r.History.Append(model.IndicatorBTCDominance, model.IndicatorSample{Time: now, Value: snap.Market.BTCDominance})
		r.History.Append(model.IndicatorETHDominance, model.IndicatorSample{Time: now, Value: snap.Market.ETHDominance})
		r.History.Append(model.IndicatorAltRatio, model.IndicatorSample{Time: now, Value: snap.Market.AltRatio()})
	}

	if snap.M2 != nil {
		// Only observations newer than the last stored one are appended:
		// this seeds a fresh history with the whole series and keeps
		// timestamps non-decreasing afterwards.
		last, ok := r.History.Last(model.IndicatorM2Supply)
		for _, o := range snap.M2 {
			if ok && !o.Date.After(last.Time) {
				continue
			}
			r.History.Append(model.IndicatorM2Supply, model.IndicatorSample{Time: o.Date, Value: o.Value})
		}
	}

	if snap.FearGreed != nil {
		r.History.Append(model.IndicatorFearGreed, model.IndicatorSample{Time: now, Value: float64(*snap.FearGreed)})
	}

	if snap.TrendHits != nil {
		r.History.Append(model.IndicatorTrendHits, model.IndicatorSample{Time: now, Value: float64(*snap.TrendHits)})
	}
}

// renderCharts renders one chart per indicator referenced by a
// triggered alert. A render failure means that indicator falls back to
// a text section.
func (r *Runner) renderCharts(alerts []model.AlertCondition) map[model.IndicatorID][]byte {
	charts := make(map[model.IndicatorID][]byte)
	for _, a := range alerts {
		for _, id := range a.Indicators {
			if _, done := charts[id]; done {
				continue
			}
			samples := r.History.Recent(id, r.Cfg.History.MaxEntries)
			png, err := r.Renderer.Render(id, samples)
			if err != nil {
				log.Warn().Err(err).Str("indicator", string(id)).Msg("chart render failed, using text fallback")
				continue
			}
			charts[id] = png
		}
	}
	return charts
}

func triggerSummary(alerts []model.AlertCondition) string {
	if len(alerts) == 0 {
		return "None"
	}
	names := make([]string, len(alerts))
	for i, a := range alerts {
		names[i] = a.Kind.Title()
	}
	return strings.Join(names, ", ")
}
