// Package metrics collects in-process timings and counters for the analysis
// pipeline.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// AnalysisMetrics tracks parse, ranking and equity runs.
type AnalysisMetrics struct {
	ParseLatency   *Histogram
	RankingLatency *Histogram
	EquityLatency  *Histogram

	DraftsParsed     atomic.Uint64
	RecordsProcessed atomic.Uint64
	ParseErrors      atomic.Uint64
	StatesEmitted    atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
}

// NewAnalysisMetrics creates a new metrics collector.
func NewAnalysisMetrics() *AnalysisMetrics {
	return &AnalysisMetrics{
		ParseLatency:   NewHistogram(DefaultWindow),
		RankingLatency: NewHistogram(DefaultWindow),
		EquityLatency:  NewHistogram(DefaultWindow),
		startTime:      time.Now(),
	}
}

// RecordParse records one pick-log parse. A failed parse only counts as an
// error.
func (m *AnalysisMetrics) RecordParse(d time.Duration, records int, err error) {
	if err != nil {
		m.ParseErrors.Add(1)
		return
	}
	m.ParseLatency.Record(d)
	m.DraftsParsed.Add(1)
	m.RecordsProcessed.Add(uint64(records))
}

// RecordRanking records one card ranking run.
func (m *AnalysisMetrics) RecordRanking(d time.Duration) {
	m.RankingLatency.Record(d)
}

// RecordEquity records one win-equity run.
func (m *AnalysisMetrics) RecordEquity(d time.Duration) {
	m.EquityLatency.Record(d)
}

// IncrementStatesEmitted counts a live draft state delivered to a consumer.
func (m *AnalysisMetrics) IncrementStatesEmitted() {
	m.StatesEmitted.Add(1)
}

// AnalysisStats is a point-in-time view of AnalysisMetrics.
type AnalysisStats struct {
	ParseLatency   LatencyStats `json:"parse_latency"`
	RankingLatency LatencyStats `json:"ranking_latency"`
	EquityLatency  LatencyStats `json:"equity_latency"`

	DraftsParsed     uint64  `json:"drafts_parsed"`
	RecordsProcessed uint64  `json:"records_processed"`
	ParseErrors      uint64  `json:"parse_errors"`
	StatesEmitted    uint64  `json:"states_emitted"`
	ParseSuccessRate float64 `json:"parse_success_rate"` // percentage

	Uptime string `json:"uptime"`
}

// GetStats returns a snapshot of the current statistics.
func (m *AnalysisMetrics) GetStats() *AnalysisStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	parsed := m.DraftsParsed.Load()
	failed := m.ParseErrors.Load()

	successRate := 0.0
	if parsed+failed > 0 {
		successRate = float64(parsed) / float64(parsed+failed) * 100
	}

	return &AnalysisStats{
		ParseLatency:     m.ParseLatency.Snapshot(),
		RankingLatency:   m.RankingLatency.Snapshot(),
		EquityLatency:    m.EquityLatency.Snapshot(),
		DraftsParsed:     parsed,
		RecordsProcessed: m.RecordsProcessed.Load(),
		ParseErrors:      failed,
		StatesEmitted:    m.StatesEmitted.Load(),
		ParseSuccessRate: successRate,
		Uptime:           time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *AnalysisMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ParseLatency.Reset()
	m.RankingLatency.Reset()
	m.EquityLatency.Reset()

	m.DraftsParsed.Store(0)
	m.RecordsProcessed.Store(0)
	m.ParseErrors.Store(0)
	m.StatesEmitted.Store(0)

	m.startTime = time.Now()
}
