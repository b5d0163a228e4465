package signature

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp time.Time
	duration  time.Duration
	cached    bool
}

// StatsSnapshot aggregates the signing requests seen within the window.
// Latencies cover memo misses only; hits cost a lookup.
type StatsSnapshot struct {
	Count  int     `json:"count"`
	Hits   int     `json:"memo_hits"`
	Misses int     `json:"memo_misses"`
	MinMs  float64 `json:"min_ms"`
	MaxMs  float64 `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Stats tracks recent signing requests within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record notes one request. cached reports a memo hit.
func (s *Stats) Record(d time.Duration, cached bool) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp: now,
		duration:  d,
		cached:    cached,
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := StatsSnapshot{Count: len(s.samples)}

	values := make([]float64, 0, len(s.samples))
	var sum float64
	for _, sm := range s.samples {
		if sm.cached {
			snap.Hits++
			continue
		}
		ms := float64(sm.duration) / float64(time.Millisecond)
		values = append(values, ms)
		sum += ms
	}
	snap.Misses = len(values)
	if len(values) == 0 {
		return snap
	}
	sort.Float64s(values)

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = sum / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}
