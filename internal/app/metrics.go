package app

import (
	"math"
	"sync/atomic"
	"time"
)

// Metrics tracks script run counts and timings. It is safe for concurrent use.
type Metrics struct {
	runs     atomic.Uint64
	failures atomic.Uint64
	totalNs  atomic.Int64
	minNs    atomic.Int64
	maxNs    atomic.Int64
	lastNs   atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.minNs.Store(math.MaxInt64)
	return m
}

// RecordRun records one finished run.
func (m *Metrics) RecordRun(duration time.Duration, failed bool) {
	ns := duration.Nanoseconds()

	m.runs.Add(1)
	if failed {
		m.failures.Add(1)
	}
	m.totalNs.Add(ns)
	m.lastNs.Store(ns)

	for {
		old := m.minNs.Load()
		if ns >= old || m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Runs     uint64
	Failures uint64
	Total    time.Duration
	Min      time.Duration
	Max      time.Duration
	Last     time.Duration
	Uptime   time.Duration
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Runs:     m.runs.Load(),
		Failures: m.failures.Load(),
		Total:    time.Duration(m.totalNs.Load()),
		Max:      time.Duration(m.maxNs.Load()),
		Last:     time.Duration(m.lastNs.Load()),
		Uptime:   time.Since(m.startTime),
	}
	if s.Runs > 0 {
		s.Min = time.Duration(m.minNs.Load())
	}
	return s
}

// Avg returns the mean run duration.
func (s MetricsSnapshot) Avg() time.Duration {
	if s.Runs == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Runs)
}
