package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"AltSentinel/internal/calculator"
	"AltSentinel/internal/model"
)

// Store is the append-only per-indicator time series backed by a flat
// JSON file. Timestamps within one series are non-decreasing; duplicate
// timestamps from re-runs are kept as-is. The file is a single-writer
// resource: Save rewrites it whole through a temp file + rename.
type Store struct {
	path       string
	maxEntries int
	series     map[model.IndicatorID][]model.IndicatorSample
	dirty      bool
}

// legacyEntry is the pre-migration format: a bare array of daily
// altcoin ratios.
type legacyEntry struct {
	Date  string  `json:"date"`
	Ratio float64 `json:"ratio"`
}

// Load reads the history file. A missing file yields an empty store.
// A malformed file also yields an empty, usable store together with the
// load error so the caller can log it without aborting the run.
func Load(path string, maxEntries int) (*Store, error) {
	s := &Store{
		path:       path,
		maxEntries: maxEntries,
		series:     make(map[model.IndicatorID][]model.IndicatorSample),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.series); err == nil {
		return s, nil
	}

	// Older deployments stored a bare array of {date, ratio} entries.
	var legacy []legacyEntry
	if err := json.Unmarshal(data, &legacy); err != nil {
		return &Store{
			path:       path,
			maxEntries: maxEntries,
			series:     make(map[model.IndicatorID][]model.IndicatorSample),
		}, fmt.Errorf("parse history: %w", err)
	}
	for _, e := range legacy {
		t, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		s.series[model.IndicatorAltRatio] = append(s.series[model.IndicatorAltRatio], model.IndicatorSample{
			Time:  t,
			Value: e.Ratio,
		})
	}
	s.dirty = true
	return s, nil
}

// Append adds a sample to the indicator's series and marks the store dirty.
func (s *Store) Append(id model.IndicatorID, sample model.IndicatorSample) {
	s.series[id] = append(s.series[id], sample)
	s.dirty = true
}

// Recent returns the trailing n samples of the indicator's series.
func (s *Store) Recent(id model.IndicatorID, n int) []model.IndicatorSample {
	return calculator.Window(s.series[id], n)
}

// Since returns all samples at or after the given instant.
func (s *Store) Since(id model.IndicatorID, t time.Time) []model.IndicatorSample {
	all := s.series[id]
	for i, smp := range all {
		if !smp.Time.Before(t) {
			return all[i:]
		}
	}
	return nil
}

// Last returns the most recent sample of the indicator's series.
func (s *Store) Last(id model.IndicatorID) (model.IndicatorSample, bool) {
	all := s.series[id]
	if len(all) == 0 {
		return model.IndicatorSample{}, false
	}
	return all[len(all)-1], true
}

// Len returns the number of stored samples for the indicator.
func (s *Store) Len(id model.IndicatorID) int {
	return len(s.series[id])
}

// Peak returns the maximum value within the trailing n samples.
// ok is false when the series is empty.
func (s *Store) Peak(id model.IndicatorID, n int) (float64, bool) {
	return calculator.Peak(calculator.Window(s.series[id], n))
}

// FlattenMetric returns the normalized rate-of-change over the trailing
// n samples. ok is false when the window is too small to judge.
func (s *Store) FlattenMetric(id model.IndicatorID, n int) (float64, bool) {
	return calculator.FlattenMetric(calculator.Window(s.series[id], n))
}

// Save trims each series to maxEntries and rewrites the backing file.
// The write goes through a temp file and rename so an interrupted run
// never leaves a partially written store behind.
func (s *Store) Save() error {
	if !s.dirty {
		return nil
	}
	if s.maxEntries > 0 {
		for id, all := range s.series {
			if len(all) > s.maxEntries {
				s.series[id] = all[len(all)-s.maxEntries:]
			}
		}
	}

	data, err := json.MarshalIndent(s.series, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace history: %w", err)
	}

	s.dirty = false
	return nil
}
