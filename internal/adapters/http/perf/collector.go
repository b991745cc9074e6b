// Package perf keeps a bounded in-memory log of request and backend-call
// timings and aggregates it on demand for the /debug/perf view.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes inbound requests from outbound backend calls.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindBackend
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path"
	StatusCode int    // 0 when the backend was unreachable
	DurationMs float64
	Timestamp  time.Time
}

// failed reports a backend call that did not get a usable answer.
func (e Entry) failed() bool {
	return e.Kind == KindBackend && (e.StatusCode == 0 || e.StatusCode >= 500)
}

// Collector is a fixed-size ring buffer; when full the oldest entries are overwritten.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding at most size entries.
// POST: size <= 0 falls back to DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// BackendObserver returns a callback suitable for the API client's observer hook.
func (c *Collector) BackendObserver() func(method, path string, status int, d time.Duration) {
	return func(method, path string, status int, d time.Duration) {
		c.Record(Entry{
			Kind:       KindBackend,
			Path:       method + " " + path,
			StatusCode: status,
			DurationMs: float64(d.Microseconds()) / 1000.0,
			Timestamp:  time.Now().Add(-d),
		})
	}
}

// Snapshot holds aggregated data computed on read.
type Snapshot struct {
	TotalRecorded   int64
	RequestP50Ms    float64
	RequestP95Ms    float64
	RequestP99Ms    float64
	BackendP95Ms    float64
	BackendFailures int
	SlowestPaths    []PathStat
	SlowestBackend  []PathStat
}

// PathStat aggregates timing for one "METHOD /path".
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

type aggregate struct {
	durations []float64
	byPath    map[string]*PathStat
}

func (a *aggregate) add(e Entry) {
	a.durations = append(a.durations, e.DurationMs)
	s, ok := a.byPath[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		a.byPath[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = max(s.MaxMs, e.DurationMs)
}

// Snapshot aggregates entries recorded at or after since.
// It copies the buffer under the lock and sorts outside it.
// POST: Slowest lists hold at most topN entries sorted by average descending
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	requests := aggregate{byPath: make(map[string]*PathStat)}
	backend := aggregate{byPath: make(map[string]*PathStat)}
	failures := 0

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			requests.add(e)
		case KindBackend:
			backend.add(e)
			if e.failed() {
				failures++
			}
		}
	}

	snap := Snapshot{
		TotalRecorded:   c.TotalRecorded(),
		BackendFailures: failures,
		SlowestPaths:    topByAvg(requests.byPath, topN),
		SlowestBackend:  topByAvg(backend.byPath, topN),
	}
	if len(requests.durations) > 0 {
		slices.Sort(requests.durations)
		snap.RequestP50Ms = percentile(requests.durations, 50)
		snap.RequestP95Ms = percentile(requests.durations, 95)
		snap.RequestP99Ms = percentile(requests.durations, 99)
	}
	if len(backend.durations) > 0 {
		slices.Sort(backend.durations)
		snap.BackendP95Ms = percentile(backend.durations, 95)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower, upper := int(math.Floor(idx)), int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b PathStat) int { return cmp.Compare(b.AvgMs, a.AvgMs) })
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
