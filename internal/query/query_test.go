package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
	"github.com/ramonehamilton/rotisserie-companion/internal/metrics"
)

type fakeSource struct {
	records []draft.PickRecord
	meta    map[string]draft.Metadata
	stats   analytics.MatchStats
	catalog *cards.Catalog
	err     error
}

func (f *fakeSource) PickHistory(context.Context) ([]draft.PickRecord, error) {
	return f.records, f.err
}

func (f *fakeSource) DraftMetadata(context.Context) (map[string]draft.Metadata, error) {
	return f.meta, nil
}

func (f *fakeSource) MatchStats(context.Context) (analytics.MatchStats, error) {
	return f.stats, nil
}

func (f *fakeSource) CardCatalog(context.Context) (*cards.Catalog, error) {
	return f.catalog, nil
}

func newSource() *fakeSource {
	return &fakeSource{
		records: []draft.PickRecord{
			{CardName: "Brainstorm", PickPosition: 1, CopyNumber: 1, WasPicked: true, DraftID: "d1", Seat: 0, Color: "U"},
			{CardName: "Lightning Bolt", PickPosition: 2, CopyNumber: 1, WasPicked: true, DraftID: "d1", Seat: 1, Color: "R"},
			{CardName: "Volcanic Island", PickPosition: 3, CopyNumber: 1, WasPicked: true, DraftID: "d1", Seat: 1, Color: "R"},
			{CardName: "Sol Ring", PickPosition: 4, CopyNumber: 1, WasPicked: true, DraftID: "d1", Seat: 0},
		},
		meta: map[string]draft.Metadata{
			"d1": {DraftID: "d1", Date: "2024-03-01", NumDrafters: 2},
		},
		stats: analytics.MatchStats{
			"d1": {0: {GamesWon: 3, GamesLost: 1}, 1: {GamesWon: 1, GamesLost: 3}},
		},
		catalog: cards.NewCatalog(
			cards.Info{Name: "Volcanic Island", TypeLine: "Land - Volcano", ColorIdentity: "UR"},
		),
	}
}

func TestRankings(t *testing.T) {
	m := metrics.NewAnalysisMetrics()
	e := NewEngine(newSource(), m)

	all, err := e.Rankings(context.Background(), RankingOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Brainstorm", all[0].Name)
	assert.Equal(t, "Sol Ring", all[3].Name)
	assert.Equal(t, 1, m.GetStats().RankingLatency.Count)

	t.Run("limit", func(t *testing.T) {
		top, err := e.Rankings(context.Background(), RankingOptions{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, top, 2)
	})

	t.Run("color uses catalog identity", func(t *testing.T) {
		blue, err := e.Rankings(context.Background(), RankingOptions{Color: "u"})
		require.NoError(t, err)
		names := make([]string, len(blue))
		for i, cs := range blue {
			names[i] = cs.Name
		}
		assert.Equal(t, []string{"Brainstorm", "Volcanic Island"}, names)
	})

	t.Run("colorless", func(t *testing.T) {
		colorless, err := e.Rankings(context.Background(), RankingOptions{Color: "C"})
		require.NoError(t, err)
		require.Len(t, colorless, 1)
		assert.Equal(t, "Sol Ring", colorless[0].Name)
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := e.Rankings(context.Background(), RankingOptions{Color: "purple"})
		assert.Error(t, err)
	})
}

func TestCard(t *testing.T) {
	e := NewEngine(newSource(), nil)

	stat, err := e.Card(context.Background(), "lightning bolt")
	require.NoError(t, err)
	assert.Equal(t, "Lightning Bolt", stat.Name)
	assert.Equal(t, 2.0, stat.Score)

	_, err = e.Card(context.Background(), "Black Lotus")
	assert.True(t, errors.Is(err, ErrCardNotFound))
}

func TestRankedEquity(t *testing.T) {
	m := metrics.NewAnalysisMetrics()
	e := NewEngine(newSource(), m)

	ranked, err := e.RankedEquity(context.Background(), true, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	// Seat 0 won 3 of 4, seat 1 won 1 of 4; raw splits evenly.
	assert.Equal(t, "Brainstorm", ranked[0].Name)
	assert.InDelta(t, 0.75, ranked[0].WinRate, 1e-9)
	assert.InDelta(t, 1.5, ranked[0].Wins, 1e-9)

	top, err := e.RankedEquity(context.Background(), false, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.InDelta(t, 0.75, top[0].WinRate, 1e-9)
	assert.Equal(t, 2, m.GetStats().EquityLatency.Count)
}

func TestSourceError(t *testing.T) {
	src := newSource()
	src.err = errors.New("disk on fire")
	e := NewEngine(src, nil)

	_, err := e.Rankings(context.Background(), RankingOptions{})
	assert.ErrorContains(t, err, "disk on fire")
	_, err = e.Equity(context.Background())
	assert.ErrorContains(t, err, "load pick history")
}
