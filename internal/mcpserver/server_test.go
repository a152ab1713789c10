package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
	"github.com/ramonehamilton/rotisserie-companion/internal/export"
	"github.com/ramonehamilton/rotisserie-companion/internal/metrics"
	"github.com/ramonehamilton/rotisserie-companion/internal/query"
)

type memorySource struct {
	records []draft.PickRecord
	stats   analytics.MatchStats
}

func (m *memorySource) PickHistory(context.Context) ([]draft.PickRecord, error) {
	return m.records, nil
}

func (m *memorySource) DraftMetadata(context.Context) (map[string]draft.Metadata, error) {
	return map[string]draft.Metadata{"d1": {DraftID: "d1", Date: "2024-05-01", NumDrafters: 2}}, nil
}

func (m *memorySource) MatchStats(context.Context) (analytics.MatchStats, error) {
	return m.stats, nil
}

func (m *memorySource) CardCatalog(context.Context) (*cards.Catalog, error) {
	return cards.NewCatalog(), nil
}

func newTestServer(t *testing.T, config Config) *Server {
	t.Helper()
	src := &memorySource{
		records: []draft.PickRecord{
			{CardName: "Brainstorm", PickPosition: 1, CopyNumber: 1, WasPicked: true, DraftID: "d1", Seat: 0},
			{CardName: "Ponder", PickPosition: 2, CopyNumber: 1, WasPicked: true, DraftID: "d1", Seat: 1},
			{CardName: "Opt", PickPosition: 3, CopyNumber: 1, WasPicked: false, DraftID: "d1", Seat: draft.NoSeat},
		},
		stats: analytics.MatchStats{"d1": {0: {GamesWon: 2}, 1: {GamesLost: 2}}},
	}
	return New(query.NewEngine(src, metrics.NewAnalysisMetrics()), config)
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

func TestToolsRegistered(t *testing.T) {
	s := newTestServer(t, Config{})
	s.MCP()

	var names []string
	for _, tool := range s.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"card_rankings", "card_stats", "win_equity", "draft_state", "turn_order", "analysis_metrics"}, names)

	// Building again does not duplicate the registry.
	s.MCP()
	assert.Len(t, s.Tools(), 6)
}

func TestCardRankings(t *testing.T) {
	s := newTestServer(t, Config{})
	res, _, err := s.cardRankings(context.Background(), nil, CardRankingsArgs{Limit: 2})
	require.NoError(t, err)

	rows := decode[[]export.RankingRow](t, res)
	require.Len(t, rows, 2)
	assert.Equal(t, "Brainstorm", rows[0].Name)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "Ponder", rows[1].Name)
}

func TestCardRankings_BadColor(t *testing.T) {
	s := newTestServer(t, Config{})
	res, _, err := s.cardRankings(context.Background(), nil, CardRankingsArgs{Color: "X"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCardStats(t *testing.T) {
	s := newTestServer(t, Config{})

	res, _, err := s.cardStats(context.Background(), nil, CardStatsArgs{Name: "ponder"})
	require.NoError(t, err)
	stat := decode[analytics.CardStats](t, res)
	assert.Equal(t, "Ponder", stat.Name)
	assert.Equal(t, 2.0, stat.Score)

	res, _, err = s.cardStats(context.Background(), nil, CardStatsArgs{Name: "Black Lotus"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "card not found")

	res, _, err = s.cardStats(context.Background(), nil, CardStatsArgs{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestWinEquity(t *testing.T) {
	s := newTestServer(t, Config{})
	res, _, err := s.winEquity(context.Background(), nil, WinEquityArgs{Raw: true})
	require.NoError(t, err)

	entries := decode[[]analytics.EquityEntry](t, res)
	require.Len(t, entries, 2)
	assert.Equal(t, "Brainstorm", entries[0].Name)
	assert.InDelta(t, 1.0, entries[0].WinRate, 1e-9)
	assert.InDelta(t, 0.0, entries[1].WinRate, 1e-9)
}

func TestDraftState(t *testing.T) {
	dir := t.TempDir()
	picks := filepath.Join(dir, "picks.csv")
	pool := filepath.Join(dir, "pool.csv")
	require.NoError(t, os.WriteFile(picks, []byte("Round,Alice,Bob\n1,Brainstorm,\n"), 0o644))
	require.NoError(t, os.WriteFile(pool, []byte("Brainstorm\nPonder\nOpt\n"), 0o644))

	s := newTestServer(t, Config{PicksCSV: picks, PoolCSV: pool, TargetSeat: "Bob"})

	res, _, err := s.draftState(context.Background(), nil, DraftStateArgs{})
	require.NoError(t, err)
	state := decode[draft.DraftState](t, res)
	assert.Equal(t, 2, state.CurrentPick)
	assert.True(t, state.IsUserTurn)
	assert.Equal(t, []string{"Ponder", "Opt"}, state.Available)

	res, _, err = s.draftState(context.Background(), nil, DraftStateArgs{TargetSeat: "Alice"})
	require.NoError(t, err)
	state = decode[draft.DraftState](t, res)
	assert.False(t, state.IsUserTurn)
	assert.Equal(t, 2, state.PicksUntilTurn)

	res, _, err = s.draftState(context.Background(), nil, DraftStateArgs{TargetSeat: "Zed"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Alice")

	stats := s.engine.Metrics().GetStats()
	assert.Equal(t, uint64(1), stats.ParseErrors)
}

func TestDraftState_NoPath(t *testing.T) {
	s := newTestServer(t, Config{})
	res, _, err := s.draftState(context.Background(), nil, DraftStateArgs{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTurnOrder(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name string
		args TurnOrderArgs
		want TurnOrderResult
	}{
		{"first pick", TurnOrderArgs{Pick: 1}, TurnOrderResult{Pick: 1, Drafters: 10, Seat: 0, Round: 1}},
		{"snake back", TurnOrderArgs{Pick: 11}, TurnOrderResult{Pick: 11, Drafters: 10, Seat: 9, Round: 2}},
		{"small table", TurnOrderArgs{Pick: 5, Drafters: 4}, TurnOrderResult{Pick: 5, Drafters: 4, Seat: 3, Round: 2}},
		{"double phase", TurnOrderArgs{Pick: 251}, TurnOrderResult{Pick: 251, Drafters: 10, Seat: 9, Round: 26, DoublePick: true}},
		{"second double round", TurnOrderArgs{Pick: 271}, TurnOrderResult{Pick: 271, Drafters: 10, Seat: 0, Round: 27, DoublePick: true}},
		{"double phase disabled", TurnOrderArgs{Pick: 251, DoublePickAfterRound: -1}, TurnOrderResult{Pick: 251, Drafters: 10, Seat: 9, Round: 26}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := s.turnOrder(context.Background(), nil, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decode[TurnOrderResult](t, res))
		})
	}

	res, _, err := s.turnOrder(context.Background(), nil, TurnOrderArgs{Pick: 0})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAnalysisMetrics(t *testing.T) {
	s := newTestServer(t, Config{})
	_, _, err := s.cardRankings(context.Background(), nil, CardRankingsArgs{})
	require.NoError(t, err)

	res, _, err := s.analysisMetrics(context.Background(), nil, MetricsArgs{})
	require.NoError(t, err)
	stats := decode[metrics.AnalysisStats](t, res)
	assert.Equal(t, 1, stats.RankingLatency.Count)

	bare := New(query.NewEngine(&memorySource{}, nil), Config{})
	res, _, err = bare.analysisMetrics(context.Background(), nil, MetricsArgs{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultLimit, clampLimit(0))
	assert.Equal(t, defaultLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, maxLimit, clampLimit(maxLimit+1))
}
