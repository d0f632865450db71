package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"AltSentinel/internal/model"
)

// ErrInsufficientData is returned when a series is too short to plot.
// The notifier falls back to a text-only section in that case.
var ErrInsufficientData = errors.New("chart: need at least 2 samples")

// Renderer draws an indicator series as a PNG line chart.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the default email-friendly size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 800, Height: 300}
}

// Render produces a PNG line chart of value over time for one indicator.
func (r *Renderer) Render(id model.IndicatorID, samples []model.IndicatorSample) ([]byte, error) {
	if len(samples) < 2 {
		return nil, ErrInsufficientData
	}

	xs := make([]time.Time, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Time
		ys[i] = s.Value
	}

	graph := gochart.Chart{
		Title:  string(id),
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    string(id),
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	// go-chart rejects a zero value range; pad a flat series.
	if min, max := minMax(ys); min == max {
		graph.YAxis.Range = &gochart.ContinuousRange{Min: min - 1, Max: max + 1}
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", id, err)
	}
	return buf.Bytes(), nil
}

func minMax(vals []float64) (float64, float64) {
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
