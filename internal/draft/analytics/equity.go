package analytics

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/stats"
)

// Play-probability tiers: how likely a card taken at a given pick is to end
// up in the seat's played deck. Lands are always played.
const (
	LandPlayProbability = 1.0

	EarlyPickLimit = 15
	MidPickLimit   = 23
	LatePickLimit  = 30

	EarlyPlayProbability   = 0.95
	MidPlayProbability     = 0.80
	LatePlayProbability    = 0.40
	DefaultPlayProbability = 0.10
)

// SeatRecord is the aggregated match record of one seat in one draft.
type SeatRecord struct {
	GamesWon  int `json:"games_won"`
	GamesLost int `json:"games_lost"`
}

// MatchStats maps draft ID to seat index to that seat's match record.
type MatchStats map[string]map[int]SeatRecord

// WinEquity is the share of match results attributed to one card.
type WinEquity struct {
	Wins    float64 `json:"wins"`
	Losses  float64 `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

// EquityResult holds both attribution variants keyed by card display name.
// Spellings that differ only in case or duplicate markers share one entry,
// named after the first spelling seen.
type EquityResult struct {
	// Weighted splits a seat's results by play probability.
	Weighted map[string]WinEquity `json:"weighted"`
	// Raw splits a seat's results evenly over its picks.
	Raw map[string]WinEquity `json:"raw"`
}

// PlayProbability estimates how likely a card picked at position is to be
// played.
func PlayProbability(position int, land bool) float64 {
	switch {
	case land:
		return LandPlayProbability
	case position <= EarlyPickLimit:
		return EarlyPlayProbability
	case position <= MidPickLimit:
		return MidPlayProbability
	case position <= LatePickLimit:
		return LatePlayProbability
	default:
		return DefaultPlayProbability
	}
}

// CalculateWinEquity distributes each seat's games won and lost over the
// cards that seat picked. Unpicked records are ignored. Seats without match
// results are never visited and seats without picks contribute nothing.
// A nil lookup treats every card as a non-land.
func CalculateWinEquity(records []draft.PickRecord, matchStats MatchStats, lookup cards.Lookup) EquityResult {
	names := make(map[string]string)
	weighted := newTally(names)
	raw := newTally(names)

	picked := lo.Filter(records, func(r draft.PickRecord, _ int) bool { return r.WasPicked })
	pools := stats.GroupMap(picked, func(r draft.PickRecord) seatKey {
		return seatKey{draftID: r.DraftID, seat: r.Seat}
	})

	for _, draftID := range sortedKeys(matchStats) {
		seats := matchStats[draftID]
		seatIdxs := lo.Keys(seats)
		sort.Ints(seatIdxs)

		for _, seat := range seatIdxs {
			pool := pools[seatKey{draftID: draftID, seat: seat}]
			if len(pool) == 0 {
				continue
			}
			result := seats[seat]
			attributeWeighted(weighted, pool, result, lookup)
			attributeRaw(raw, pool, result)
		}
	}

	return EquityResult{Weighted: weighted.finish(), Raw: raw.finish()}
}

type seatKey struct {
	draftID string
	seat    int
}

func attributeWeighted(acc *tally, pool []draft.PickRecord, result SeatRecord, lookup cards.Lookup) {
	weights := make([]float64, len(pool))
	var total float64
	for i, r := range pool {
		weights[i] = PlayProbability(r.PickPosition, cards.IsLand(lookup, r.CardName))
		total += weights[i]
	}
	if total <= 0 {
		return
	}
	for i, r := range pool {
		share := weights[i] / total
		e := acc.entry(r.CardName)
		e.Wins += share * float64(result.GamesWon)
		e.Losses += share * float64(result.GamesLost)
	}
}

func attributeRaw(acc *tally, pool []draft.PickRecord, result SeatRecord) {
	share := 1 / float64(len(pool))
	for _, r := range pool {
		e := acc.entry(r.CardName)
		e.Wins += share * float64(result.GamesWon)
		e.Losses += share * float64(result.GamesLost)
	}
}

// tally accumulates equity per card identity (LookupKey). names is shared
// between the weighted and raw tallies so both report the same display name:
// the first normalized spelling seen.
type tally struct {
	names map[string]string
	sums  map[string]*WinEquity
}

func newTally(names map[string]string) *tally {
	return &tally{names: names, sums: make(map[string]*WinEquity)}
}

func (t *tally) entry(name string) *WinEquity {
	key := cards.LookupKey(name)
	if _, ok := t.names[key]; !ok {
		t.names[key] = cards.NormalizeName(name)
	}
	e, ok := t.sums[key]
	if !ok {
		e = &WinEquity{}
		t.sums[key] = e
	}
	return e
}

// finish computes win rates and keys the result by display name.
func (t *tally) finish() map[string]WinEquity {
	out := make(map[string]WinEquity, len(t.sums))
	for key, e := range t.sums {
		eq := *e
		if games := eq.Wins + eq.Losses; games > 0 {
			eq.WinRate = eq.Wins / games
		}
		out[t.names[key]] = eq
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// EquityEntry is one card of a ranked equity table.
type EquityEntry struct {
	Name string `json:"name"`
	WinEquity
}

// RankEquity orders an equity map by descending win rate, then by attributed
// games, then by name.
func RankEquity(equity map[string]WinEquity) []EquityEntry {
	entries := make([]EquityEntry, 0, len(equity))
	for name, e := range equity {
		entries = append(entries, EquityEntry{Name: name, WinEquity: e})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if ga, gb := a.Wins+a.Losses, b.Wins+b.Losses; ga != gb {
			return ga > gb
		}
		return a.Name < b.Name
	})
	return entries
}
