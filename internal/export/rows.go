package export

import (
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
)

// RankingRow is one card of the ranking export.
type RankingRow struct {
	Rank             int      `csv:"rank" json:"rank"`
	Name             string   `csv:"name" json:"name"`
	Score            float64  `csv:"score" json:"score"`
	TotalPicks       int      `csv:"total_picks" json:"total_picks"`
	TimesAvailable   int      `csv:"times_available" json:"times_available"`
	DraftsPickedIn   int      `csv:"drafts_picked_in" json:"drafts_picked_in"`
	TimesUnpicked    int      `csv:"times_unpicked" json:"times_unpicked"`
	MaxCopiesInDraft int      `csv:"max_copies_in_draft" json:"max_copies_in_draft"`
	Colors           []string `csv:"colors" json:"colors"`
}

// RankingRows flattens ranked card stats. Ranks follow input order.
func RankingRows(stats []analytics.CardStats) []RankingRow {
	rows := make([]RankingRow, len(stats))
	for i, cs := range stats {
		rows[i] = RankingRow{
			Rank:             i + 1,
			Name:             cs.Name,
			Score:            cs.Score,
			TotalPicks:       cs.TotalPicks,
			TimesAvailable:   cs.TimesAvailable,
			DraftsPickedIn:   cs.DraftsPickedIn,
			TimesUnpicked:    cs.TimesUnpicked,
			MaxCopiesInDraft: cs.MaxCopiesInDraft,
			Colors:           cs.Colors,
		}
	}
	return rows
}

// EquityRow is one card of the win-equity export.
type EquityRow struct {
	Name       string  `csv:"name" json:"name"`
	Wins       float64 `csv:"wins" json:"wins"`
	Losses     float64 `csv:"losses" json:"losses"`
	WinRate    float64 `csv:"win_rate" json:"win_rate"`
	RawWins    float64 `csv:"raw_wins" json:"raw_wins"`
	RawLosses  float64 `csv:"raw_losses" json:"raw_losses"`
	RawWinRate float64 `csv:"raw_win_rate" json:"raw_win_rate"`
}

// EquityRows joins the weighted and raw variants, ordered by weighted win
// rate.
func EquityRows(result analytics.EquityResult) []EquityRow {
	ranked := analytics.RankEquity(result.Weighted)
	rows := make([]EquityRow, len(ranked))
	for i, e := range ranked {
		raw := result.Raw[e.Name]
		rows[i] = EquityRow{
			Name:       e.Name,
			Wins:       e.Wins,
			Losses:     e.Losses,
			WinRate:    e.WinRate,
			RawWins:    raw.Wins,
			RawLosses:  raw.Losses,
			RawWinRate: raw.WinRate,
		}
	}
	return rows
}
