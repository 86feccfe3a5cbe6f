package app

import (
	"math"
	"sync/atomic"
	"time"
)

// Metrics counts draws, input events and store changes for the session.
type Metrics struct {
	drawCount   atomic.Uint64
	drawTotalNs atomic.Int64
	drawMinNs   atomic.Int64
	drawMaxNs   atomic.Int64
	lastDrawNs  atomic.Int64

	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64

	changeCount atomic.Uint64
	exportCount atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.drawMinNs.Store(math.MaxInt64)
	return m
}

// RecordDraw records the time spent drawing one screen.
func (m *Metrics) RecordDraw(d time.Duration) {
	ns := d.Nanoseconds()
	m.drawCount.Add(1)
	m.drawTotalNs.Add(ns)
	m.lastDrawNs.Store(ns)

	for {
		old := m.drawMinNs.Load()
		if ns >= old || m.drawMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.drawMaxNs.Load()
		if ns <= old || m.drawMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvent records the time spent handling one backend event.
func (m *Metrics) RecordEvent(d time.Duration) {
	m.eventCount.Add(1)
	m.eventTotalNs.Add(d.Nanoseconds())
}

// RecordChange counts a committed store mutation.
func (m *Metrics) RecordChange() {
	m.changeCount.Add(1)
}

// RecordExport counts a written export file.
func (m *Metrics) RecordExport() {
	m.exportCount.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	draws := m.drawCount.Load()
	events := m.eventCount.Load()

	s := MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		DrawCount:   draws,
		MaxDrawNs:   m.drawMaxNs.Load(),
		LastDrawNs:  m.lastDrawNs.Load(),
		EventCount:  events,
		ChangeCount: m.changeCount.Load(),
		ExportCount: m.exportCount.Load(),
	}
	if draws > 0 {
		s.AvgDrawNs = m.drawTotalNs.Load() / int64(draws)
		s.MinDrawNs = m.drawMinNs.Load()
	}
	if events > 0 {
		s.AvgEventNs = m.eventTotalNs.Load() / int64(events)
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	DrawCount   uint64
	AvgDrawNs   int64
	MinDrawNs   int64
	MaxDrawNs   int64
	LastDrawNs  int64
	EventCount  uint64
	AvgEventNs  int64
	ChangeCount uint64
	ExportCount uint64
}

// AvgDraw returns the mean draw time.
func (s MetricsSnapshot) AvgDraw() time.Duration {
	return time.Duration(s.AvgDrawNs)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
