// Package analytics ranks cards across historical rotisserie drafts and
// attributes match results back onto the cards each seat drafted.
package analytics

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/stats"
)

// Weighting of pick observations. Each further copy of a card counts half as
// much as the previous one, and a copy nobody picked counts half again.
const (
	CopyWeightDecay = 0.5
	UnpickedWeight  = 0.5
)

// Pick-distribution histogram shape.
const (
	HistogramBuckets    = 15
	HistogramBucketSize = 30
)

// ScoreEntry is one point of a card's score history.
type ScoreEntry struct {
	Date     string `json:"date"`
	DraftID  string `json:"draft_id,omitempty"` // set when only one draft ran on Date
	Position int    `json:"position"`           // geometric mean of per-draft best positions
	Round    int    `json:"round"`

	// PickedIn and DraftCount are only filled when several drafts share Date.
	PickedIn   int `json:"picked_in,omitempty"`
	DraftCount int `json:"draft_count,omitempty"`
}

// CardStats is the aggregated pick history of one card.
type CardStats struct {
	Name             string                `json:"name"`
	Score            float64               `json:"score"`
	TotalPicks       int                   `json:"total_picks"`
	TimesAvailable   int                   `json:"times_available"`
	DraftsPickedIn   int                   `json:"drafts_picked_in"`
	TimesUnpicked    int                   `json:"times_unpicked"`
	MaxCopiesInDraft int                   `json:"max_copies_in_draft"`
	Colors           []string              `json:"colors"`
	ScoreHistory     []ScoreEntry          `json:"score_history"`
	PickDistribution [HistogramBuckets]int `json:"pick_distribution"`
}

// PickWeight is the weight one record carries in a card's ranking score.
func PickWeight(r draft.PickRecord) float64 {
	w := math.Pow(CopyWeightDecay, float64(r.CopyNumber-1))
	if !r.WasPicked {
		w *= UnpickedWeight
	}
	return w
}

// HistogramBucket maps a pick position to its pick-distribution bucket.
func HistogramBucket(position int) int {
	if position <= 0 {
		return 0
	}
	return min((position-1)/HistogramBucketSize, HistogramBuckets-1)
}

// CalculateCardStats aggregates pick records from any number of drafts into
// one CardStats per card, sorted by ascending score with ties broken by name.
// Drafts missing from the metadata map count as undated ten-seat drafts.
func CalculateCardStats(records []draft.PickRecord, drafts map[string]draft.Metadata) []CardStats {
	groups := stats.GroupBy(records, func(r draft.PickRecord) string {
		return cards.LookupKey(r.CardName)
	})

	result := make([]CardStats, 0, len(groups))
	for _, g := range groups {
		result = append(result, cardStats(g.Items, drafts))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score < result[j].Score
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func cardStats(records []draft.PickRecord, drafts map[string]draft.Metadata) CardStats {
	cs := CardStats{Name: cards.NormalizeName(records[0].CardName)}

	weighted := make([]stats.Weighted, 0, len(records))
	colors := make(map[string]bool)
	for _, r := range records {
		weighted = append(weighted, stats.Weighted{Value: float64(r.PickPosition), Weight: PickWeight(r)})
		if r.WasPicked {
			cs.TotalPicks++
		} else {
			cs.TimesUnpicked++
		}
		if r.Color != "" {
			colors[r.Color] = true
		}
		cs.PickDistribution[HistogramBucket(r.PickPosition)]++
	}
	cs.Score = stats.WeightedGeometricMean(weighted)
	cs.Colors = lo.Keys(colors)
	sort.Strings(cs.Colors)

	byDraft := stats.GroupBy(records, func(r draft.PickRecord) string { return r.DraftID })
	cs.TimesAvailable = len(byDraft)

	appearances := make([]draftAppearance, 0, len(byDraft))
	for _, g := range byDraft {
		a := draftAppearance{meta: metadataFor(drafts, g.Key), best: math.MaxInt}
		for _, r := range g.Items {
			a.best = min(a.best, r.PickPosition)
			a.picked = a.picked || r.WasPicked
			cs.MaxCopiesInDraft = max(cs.MaxCopiesInDraft, r.CopyNumber)
		}
		if a.picked {
			cs.DraftsPickedIn++
		}
		appearances = append(appearances, a)
	}
	cs.ScoreHistory = scoreHistory(appearances)

	return cs
}

// draftAppearance is a card's best showing in one draft.
type draftAppearance struct {
	meta   draft.Metadata
	best   int
	picked bool
}

func metadataFor(drafts map[string]draft.Metadata, id string) draft.Metadata {
	if meta, ok := drafts[id]; ok {
		if meta.DraftID == "" {
			meta.DraftID = id
		}
		return meta
	}
	return draft.Metadata{DraftID: id, NumDrafters: draft.DefaultNumDrafters}
}

// scoreHistory folds per-draft best positions into one entry per date.
func scoreHistory(appearances []draftAppearance) []ScoreEntry {
	byDate := stats.GroupBy(appearances, func(a draftAppearance) string { return a.meta.Date })

	history := make([]ScoreEntry, 0, len(byDate))
	for _, g := range byDate {
		positions := make([]float64, len(g.Items))
		seats := 0
		picked := 0
		for i, a := range g.Items {
			positions[i] = float64(a.best)
			seats += a.meta.NumDrafters
			if a.picked {
				picked++
			}
		}

		entry := ScoreEntry{
			Date:     g.Key,
			Position: int(math.Round(stats.GeometricMean(positions))),
		}
		avgSeats := int(math.Round(float64(seats) / float64(len(g.Items))))
		if avgSeats > 0 {
			entry.Round = int(math.Ceil(float64(entry.Position) / float64(avgSeats)))
		}
		if len(g.Items) > 1 {
			entry.PickedIn = picked
			entry.DraftCount = len(g.Items)
		} else {
			entry.DraftID = g.Items[0].meta.DraftID
		}
		history = append(history, entry)
	}

	sort.SliceStable(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	return history
}

// FindCard returns the stats for one card, matched by lookup key.
func FindCard(all []CardStats, name string) (CardStats, bool) {
	key := cards.LookupKey(name)
	return lo.Find(all, func(cs CardStats) bool { return cards.LookupKey(cs.Name) == key })
}
