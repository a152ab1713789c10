// Package benchmarks measures the draft analytics on synthetic histories.
//
// To run:
//
//	go test -bench=. -benchmem ./benchmarks/...
//
// To compare two revisions:
//
//	go install golang.org/x/perf/cmd/benchstat@latest
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > old.txt
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > new.txt
//	benchstat old.txt new.txt
package benchmarks

import (
	"fmt"
	"runtime"
	"strconv"
	"testing"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
)

const (
	benchSeats  = 10
	benchRounds = 45
	// Cards in the synthetic cube. Fewer than seats*rounds so that some
	// cards repeat and copy numbers matter.
	benchCube = 360
)

func cardName(n int) string {
	return "Card " + strconv.Itoa(n%benchCube) + "x"
}

// makePickLog builds a full snake grid plus a pool with leftovers.
func makePickLog(seed int) draft.PickLog {
	header := []string{"Round"}
	for s := 0; s < benchSeats; s++ {
		header = append(header, fmt.Sprintf("Seat %d", s))
	}

	var rows [][]string
	var pool []string
	for r := 1; r <= benchRounds; r++ {
		row := []string{strconv.Itoa(r)}
		for s := 0; s < benchSeats; s++ {
			name := cardName(seed + r*benchSeats + s)
			row = append(row, name)
			pool = append(pool, name)
		}
		rows = append(rows, row)
	}
	for i := 0; i < 40; i++ {
		pool = append(pool, cardName(seed+7*i))
	}
	return draft.PickLog{Header: header, Rows: rows, Pool: pool}
}

type history struct {
	records []draft.PickRecord
	meta    map[string]draft.Metadata
	results analytics.MatchStats
}

func makeHistory(b *testing.B, drafts int) history {
	b.Helper()
	h := history{meta: make(map[string]draft.Metadata), results: make(analytics.MatchStats)}
	for d := 0; d < drafts; d++ {
		id := fmt.Sprintf("draft-%d", d)
		parsed, err := draft.ParsePickLog(makePickLog(d*13), id)
		if err != nil {
			b.Fatalf("ParsePickLog: %v", err)
		}
		h.records = append(h.records, parsed.Picks...)
		h.meta[id] = draft.Metadata{DraftID: id, Date: fmt.Sprintf("2024-%02d-01", d%12+1), NumDrafters: benchSeats}

		seats := make(map[int]analytics.SeatRecord, benchSeats)
		for s := 0; s < benchSeats; s++ {
			seats[s] = analytics.SeatRecord{GamesWon: (s + d) % 4, GamesLost: (s * d) % 3}
		}
		h.results[id] = seats
	}
	return h
}

// BenchmarkParsePickLog parses one full grid.
func BenchmarkParsePickLog(b *testing.B) {
	log := makePickLog(1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		parsed, err := draft.ParsePickLog(log, "bench")
		if err != nil {
			b.Fatal(err)
		}
		runtime.KeepAlive(parsed)
	}
}

// BenchmarkParseDraftState reconstructs live state from a half-finished grid.
func BenchmarkParseDraftState(b *testing.B) {
	log := makePickLog(1)
	log.Rows = log.Rows[:benchRounds/2]
	opts := draft.StateOptions{TargetSeat: "Seat 3"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		state, err := draft.ParseDraftState(log, opts)
		if err != nil {
			b.Fatal(err)
		}
		runtime.KeepAlive(state)
	}
}

// BenchmarkCalculateCardStats ranks histories of growing size.
func BenchmarkCalculateCardStats(b *testing.B) {
	for _, drafts := range []int{1, 10, 50} {
		h := makeHistory(b, drafts)
		b.Run(draftName(drafts), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				runtime.KeepAlive(analytics.CalculateCardStats(h.records, h.meta))
			}
		})
	}
}

// BenchmarkCalculateWinEquity attributes results over histories of growing
// size.
func BenchmarkCalculateWinEquity(b *testing.B) {
	catalog := cards.NewCatalog()
	for n := 0; n < benchCube; n += 9 {
		catalog.Add(cards.Info{Name: cardName(n), TypeLine: "Land"})
	}

	for _, drafts := range []int{1, 10, 50} {
		h := makeHistory(b, drafts)
		b.Run(draftName(drafts), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				runtime.KeepAlive(analytics.CalculateWinEquity(h.records, h.results, catalog))
			}
		})
	}
}

// BenchmarkDrafterForPick walks every pick of a long draft with double picks.
func BenchmarkDrafterForPick(b *testing.B) {
	total := (draft.DefaultDoublePickAfterRound + 10) * benchSeats
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sum := 0
		for p := 1; p <= total; p++ {
			sum += draft.DrafterForPick(p, benchSeats, draft.DefaultDoublePickAfterRound)
		}
		runtime.KeepAlive(sum)
	}
}

func draftName(n int) string {
	return fmt.Sprintf("%ddrafts", n)
}
