// Package stats keeps rolling-window latency aggregates for document
// operations.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationUs int64
}

// Snapshot is a point-in-time aggregate of latency samples, in microseconds.
type Snapshot struct {
	Count int     `json:"count"`
	MinUs int64   `json:"min_us"`
	MaxUs int64   `json:"max_us"`
	AvgUs float64 `json:"avg_us"`
	P50Us float64 `json:"p50_us"`
	P95Us float64 `json:"p95_us"`
	P99Us float64 `json:"p99_us"`
}

// Window tracks recent latencies for one operation.
type Window struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewWindow(maxAge time.Duration) *Window {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Window{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

func (w *Window) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
	w.samples = append(w.samples, sample{
		timestamp:  now,
		durationUs: us,
	})
}

func (w *Window) Snapshot() Snapshot {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
	if len(w.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, 0, len(w.samples))
	var sum int64
	for _, sm := range w.samples {
		values = append(values, sm.durationUs)
		sum += sm.durationUs
	}
	slices.Sort(values)

	return Snapshot{
		Count: len(values),
		MinUs: values[0],
		MaxUs: values[len(values)-1],
		AvgUs: float64(sum) / float64(len(values)),
		P50Us: percentile(values, 50),
		P95Us: percentile(values, 95),
		P99Us: percentile(values, 99),
	}
}

func (w *Window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.maxAge)
	writeIdx := 0
	for _, sm := range w.samples {
		if !sm.timestamp.Before(cutoff) {
			w.samples[writeIdx] = sm
			writeIdx++
		}
	}
	w.samples = w.samples[:writeIdx]
}

// Ops holds one Window per named operation, created on first use.
type Ops struct {
	mu      sync.Mutex
	windows map[string]*Window
	maxAge  time.Duration
}

func NewOps(maxAge time.Duration) *Ops {
	return &Ops{
		windows: make(map[string]*Window),
		maxAge:  maxAge,
	}
}

func (o *Ops) window(op string) *Window {
	o.mu.Lock()
	defer o.mu.Unlock()
	w, ok := o.windows[op]
	if !ok {
		w = NewWindow(o.maxAge)
		o.windows[op] = w
	}
	return w
}

// Record adds one latency sample for op.
func (o *Ops) Record(op string, d time.Duration) {
	o.window(op).Record(d)
}

// Track starts timing op and returns the func that records it.
//
//	defer ops.Track("convert")()
func (o *Ops) Track(op string) func() {
	start := time.Now()
	return func() { o.Record(op, time.Since(start)) }
}

// Snapshot returns the aggregate for every operation seen so far.
func (o *Ops) Snapshot() map[string]Snapshot {
	o.mu.Lock()
	names := make([]string, 0, len(o.windows))
	windows := make([]*Window, 0, len(o.windows))
	for name, w := range o.windows {
		names = append(names, name)
		windows = append(windows, w)
	}
	o.mu.Unlock()

	out := make(map[string]Snapshot, len(names))
	for i, name := range names {
		out[name] = windows[i].Snapshot()
	}
	return out
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
