package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAnalysisMetrics_RecordParse(t *testing.T) {
	m := NewAnalysisMetrics()

	m.RecordParse(2*time.Millisecond, 40, nil)
	m.RecordParse(4*time.Millisecond, 60, nil)
	m.RecordParse(time.Millisecond, 0, errors.New("bad grid"))

	stats := m.GetStats()
	if stats.DraftsParsed != 2 {
		t.Errorf("DraftsParsed = %d, want 2", stats.DraftsParsed)
	}
	if stats.RecordsProcessed != 100 {
		t.Errorf("RecordsProcessed = %d, want 100", stats.RecordsProcessed)
	}
	if stats.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", stats.ParseErrors)
	}
	if stats.ParseLatency.Count != 2 {
		t.Errorf("ParseLatency.Count = %d, want 2", stats.ParseLatency.Count)
	}
	if stats.ParseSuccessRate < 66.6 || stats.ParseSuccessRate > 66.7 {
		t.Errorf("ParseSuccessRate = %v, want ~66.67", stats.ParseSuccessRate)
	}
}

func TestAnalysisMetrics_Concurrent(t *testing.T) {
	m := NewAnalysisMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordRanking(time.Microsecond)
				m.RecordEquity(time.Microsecond)
				m.IncrementStatesEmitted()
			}
		}()
	}
	wg.Wait()

	stats := m.GetStats()
	if stats.StatesEmitted != 800 {
		t.Errorf("StatesEmitted = %d, want 800", stats.StatesEmitted)
	}
	if stats.RankingLatency.Total != 800 || stats.EquityLatency.Total != 800 {
		t.Errorf("latency totals = %d, %d; want 800", stats.RankingLatency.Total, stats.EquityLatency.Total)
	}
}

func TestAnalysisMetrics_Reset(t *testing.T) {
	m := NewAnalysisMetrics()
	m.RecordParse(time.Millisecond, 5, nil)
	m.Reset()

	stats := m.GetStats()
	if stats.DraftsParsed != 0 || stats.RecordsProcessed != 0 || stats.ParseLatency.Count != 0 {
		t.Errorf("after Reset stats = %+v", stats)
	}
	if stats.ParseSuccessRate != 0 {
		t.Errorf("ParseSuccessRate = %v, want 0", stats.ParseSuccessRate)
	}
}
