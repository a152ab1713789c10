package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
)

// setupTestService creates a service backed by a migrated temporary database.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	config := DefaultConfig(filepath.Join(t.TempDir(), "test.db"))
	config.AutoMigrate = true
	db, err := Open(config)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return NewService(db)
}

func parsedFixture(t *testing.T) *draft.ParsedDraft {
	t.Helper()
	parsed, err := draft.ParsePickLog(draft.PickLog{
		Header: []string{"Round", "Alice", "Bob", "Carol"},
		Rows: [][]string{
			{"1", "Black Lotus", "Sol Ring", "Volcanic Island"},
			{"2", "Brainstorm", "Sol Ring 2", "Ponder"},
		},
		Pool: []string{"Black Lotus", "Sol Ring", "Sol Ring 2", "Sol Ring 3", "Volcanic Island", "Brainstorm", "Ponder", "Time Walk"},
	}, "")
	require.NoError(t, err)
	return parsed
}

func TestImportDraft(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)
	parsed := parsedFixture(t)

	res, err := svc.ImportDraft(ctx, draft.Metadata{DraftID: "cube-1", Name: "Vintage Cube", Date: "2024-05-01"}, parsed)
	require.NoError(t, err)
	assert.Equal(t, "cube-1", res.DraftID)
	assert.True(t, res.Created)
	assert.Equal(t, 6, res.Picks)

	records, err := svc.PickHistory(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(parsed.Picks))
	for _, r := range records {
		assert.Equal(t, "cube-1", r.DraftID)
	}

	meta, err := svc.DraftMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, draft.Metadata{DraftID: "cube-1", Name: "Vintage Cube", Date: "2024-05-01", NumDrafters: 3}, meta["cube-1"])

	drafts, err := svc.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, drafts[0].Seats)
	assert.Equal(t, 8, drafts[0].PoolSize)
	assert.Equal(t, 6, drafts[0].PickCount)
}

func TestImportDraft_SameContentIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	first, err := svc.ImportDraft(ctx, draft.Metadata{Date: "2024-05-01"}, parsedFixture(t))
	require.NoError(t, err)
	require.True(t, first.Created)
	assert.NotEmpty(t, first.DraftID, "a draft ID should be generated")

	second, err := svc.ImportDraft(ctx, draft.Metadata{DraftID: "other"}, parsedFixture(t))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.DraftID, second.DraftID)

	drafts, err := svc.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestImportDraft_Nil(t *testing.T) {
	svc := setupTestService(t)
	_, err := svc.ImportDraft(context.Background(), draft.Metadata{}, nil)
	assert.Error(t, err)
}

func TestDraftMetadata_DefaultsSeatCount(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	_, err := svc.db.Conn().ExecContext(ctx,
		`INSERT INTO drafts (id, name, draft_date, num_drafters, seats, pool_size, fingerprint) VALUES ('legacy', 'Old', '2020-01-01', NULL, '[]', 0, 'x')`)
	require.NoError(t, err)

	meta, err := svc.DraftMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, draft.DefaultNumDrafters, meta["legacy"].NumDrafters)
}

func TestRecordSeatResult(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	res, err := svc.ImportDraft(ctx, draft.Metadata{DraftID: "d1"}, parsedFixture(t))
	require.NoError(t, err)

	require.NoError(t, svc.RecordSeatResult(ctx, res.DraftID, 0, 2, 1))
	require.NoError(t, svc.RecordSeatResult(ctx, res.DraftID, 0, 1, 1))
	require.NoError(t, svc.RecordSeatResult(ctx, res.DraftID, 2, 0, 3))

	stats, err := svc.MatchStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, analytics.MatchStats{
		"d1": {
			0: {GamesWon: 3, GamesLost: 2},
			2: {GamesWon: 0, GamesLost: 3},
		},
	}, stats)
}

func TestRecordSeatResult_Errors(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	_, err := svc.ImportDraft(ctx, draft.Metadata{DraftID: "d1"}, parsedFixture(t))
	require.NoError(t, err)

	tests := []struct {
		name    string
		draftID string
		seat    int
		won     int
		lost    int
		want    error
	}{
		{"unknown draft", "missing", 0, 1, 0, ErrDraftNotFound},
		{"negative games", "d1", 0, -1, 0, ErrInvalidResult},
		{"seat too high", "d1", 3, 1, 0, ErrInvalidResult},
		{"negative seat", "d1", -1, 1, 0, ErrInvalidResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.RecordSeatResult(ctx, tt.draftID, tt.seat, tt.won, tt.lost)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestCardCatalog(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	require.NoError(t, svc.UpsertCard(ctx, cards.Info{Name: "Volcanic Island", TypeLine: "Land", ColorIdentity: "ur"}))
	require.NoError(t, svc.UpsertCard(ctx, cards.Info{Name: "Brainstorm", TypeLine: "Instant", ColorIdentity: "U"}))
	require.NoError(t, svc.UpsertCard(ctx, cards.Info{Name: "Brainstorm 2", TypeLine: "Instant", ColorIdentity: "U"}))
	assert.Error(t, svc.UpsertCard(ctx, cards.Info{Name: "  "}))

	catalog, err := svc.CardCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	info, ok := catalog.Lookup("volcanic island")
	require.True(t, ok)
	assert.True(t, info.IsLand())
	assert.Equal(t, "UR", info.ColorIdentity)
}

func TestDeleteDraft(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	_, err := svc.ImportDraft(ctx, draft.Metadata{DraftID: "d1"}, parsedFixture(t))
	require.NoError(t, err)
	require.NoError(t, svc.RecordSeatResult(ctx, "d1", 1, 2, 0))

	require.NoError(t, svc.DeleteDraft(ctx, "d1"))

	records, err := svc.PickHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	stats, err := svc.MatchStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)

	assert.ErrorIs(t, svc.DeleteDraft(ctx, "d1"), ErrDraftNotFound)
}

func TestPickHistoryFeedsAnalytics(t *testing.T) {
	ctx := context.Background()
	svc := setupTestService(t)

	_, err := svc.ImportDraft(ctx, draft.Metadata{DraftID: "d1", Date: "2024-05-01"}, parsedFixture(t))
	require.NoError(t, err)

	records, err := svc.PickHistory(ctx)
	require.NoError(t, err)
	meta, err := svc.DraftMetadata(ctx)
	require.NoError(t, err)

	ranked := analytics.CalculateCardStats(records, meta)
	require.NotEmpty(t, ranked)
	assert.Equal(t, "Black Lotus", ranked[0].Name)

	sol, ok := analytics.FindCard(ranked, "Sol Ring")
	require.True(t, ok)
	assert.Equal(t, 3, sol.MaxCopiesInDraft)
	assert.Equal(t, 2, sol.TotalPicks)
	assert.Equal(t, 1, sol.TimesUnpicked)
}
