// Package metrics keeps in-process timings and counters for the shell's hot
// paths: exercise lookups, lesson catalog reads, source reloads, menu builds,
// bridge requests and profile settings I/O.
//
// Everything is lock-free. Collection is on by default and can be disabled
// with MECAMATIC_METRICS=0.
//
// Usage:
//
//	func (s *Shell) Reload(ctx context.Context) error {
//	    defer metrics.Timer(metrics.SourceReload)()
//	    ...
//	}
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("MECAMATIC_METRICS") != "0")
}

// Enabled reports whether metrics are collected.
func Enabled() bool { return enabled.Load() }

// SetEnabled turns collection on or off.
func SetEnabled(e bool) { enabled.Store(e) }

// TimingMetric aggregates the durations of one operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	minNs   atomic.Int64 // 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)

	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.minNs.Load()
		if (old != 0 && ns >= old) || m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Total returns the summed duration of all samples.
func (m *TimingMetric) Total() time.Duration { return time.Duration(m.totalNs.Load()) }

// Min returns the shortest sample, or 0 without samples.
func (m *TimingMetric) Min() time.Duration { return time.Duration(m.minNs.Load()) }

// Max returns the longest sample.
func (m *TimingMetric) Max() time.Duration { return time.Duration(m.maxNs.Load()) }

// Avg returns the mean sample, or 0 without samples.
func (m *TimingMetric) Avg() time.Duration {
	n := m.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(m.totalNs.Load() / n)
}

// Stats returns a snapshot in milliseconds.
func (m *TimingMetric) Stats() TimingStats {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return TimingStats{
		Name:    m.name,
		Count:   m.Count(),
		TotalMs: ms(m.Total()),
		AvgMs:   ms(m.Avg()),
		MaxMs:   ms(m.Max()),
		MinMs:   ms(m.Min()),
	}
}

// Reset drops every sample.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.minNs.Store(0)
}

// TimingStats is a snapshot of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts timing m and returns the function that records the sample.
func Timer(m *TimingMetric) func() {
	if m == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

// Timed operations.
var (
	ExerciseLookup = newTimingMetric("exercise_lookup")
	CatalogRead    = newTimingMetric("catalog_read")
	SourceReload   = newTimingMetric("source_reload")
	MenuBuild      = newTimingMetric("menu_build")
	BridgeRequest  = newTimingMetric("bridge_request")
	SettingsIO     = newTimingMetric("settings_io")
	UIRender       = newTimingMetric("ui_render")
)

// AllTimingMetrics returns every registered timing metric.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{
		ExerciseLookup,
		CatalogRead,
		SourceReload,
		MenuBuild,
		BridgeRequest,
		SettingsIO,
		UIRender,
	}
}

// ResetAll resets all timing metrics and counters.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
	for _, c := range AllCounters() {
		c.Reset()
	}
}

// AllTimingStats returns the stats of the metrics that have samples.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	for _, m := range AllTimingMetrics() {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
