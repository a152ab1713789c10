package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// DefaultWindow is the number of samples a Histogram keeps when no size is
// given.
const DefaultWindow = 4096

// Histogram keeps a sliding window of duration samples in milliseconds.
type Histogram struct {
	mu      sync.Mutex
	samples []float64
	next    int // ring index of the next write once the window is full
	total   uint64
}

// NewHistogram creates a histogram holding at most window samples.
func NewHistogram(window int) *Histogram {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Histogram{samples: make([]float64, 0, window)}
}

// Record adds a duration sample, replacing the oldest one when the window is
// full.
func (h *Histogram) Record(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0

	h.mu.Lock()
	defer h.mu.Unlock()

	h.total++
	if len(h.samples) < cap(h.samples) {
		h.samples = append(h.samples, ms)
		return
	}
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
}

// Time records the time elapsed since start.
func (h *Histogram) Time(start time.Time) {
	h.Record(time.Since(start))
}

// Snapshot computes summary statistics over the current window.
func (h *Histogram) Snapshot() LatencyStats {
	h.mu.Lock()
	sorted := make([]float64, len(h.samples))
	copy(sorted, h.samples)
	total := h.total
	h.mu.Unlock()

	stats := LatencyStats{Count: len(sorted), Total: total}
	if len(sorted) == 0 {
		return stats
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	stats.Mean = sum / float64(len(sorted))
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.P50 = percentile(sorted, 50)
	stats.P95 = percentile(sorted, 95)
	stats.P99 = percentile(sorted, 99)
	return stats
}

// Reset clears all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
	h.next = 0
	h.total = 0
}

// percentile interpolates linearly between the closest ranks of a sorted
// slice.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}

// LatencyStats summarizes a histogram window.
type LatencyStats struct {
	Mean  float64 `json:"mean"` // milliseconds
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"` // samples in the window
	Total uint64  `json:"total"` // samples ever recorded
}
