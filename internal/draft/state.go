package draft

import (
	"sort"
	"strings"
	"unicode"
)

// lookaheadRounds bounds the picks-until-turn scan. Double-pick rounds are
// 2N picks long, so every seat appears well inside this window.
const lookaheadRounds = 4

// StateOptions configures live draft state reconstruction.
type StateOptions struct {
	// TargetSeat is the seat name of the user. Decorated names such as
	// "Alice (me)" match "Alice".
	TargetSeat string

	// DoublePickAfterRound is the draft's double-pick threshold.
	// Zero means DefaultDoublePickAfterRound; negative disables double picks.
	DoublePickAfterRound int
}

func (o StateOptions) doublePickAfterRound() int {
	if o.DoublePickAfterRound == 0 {
		return DefaultDoublePickAfterRound
	}
	return o.DoublePickAfterRound
}

// ParseDraftState reconstructs the live state of an in-progress draft.
//
// The current pick comes from a "picks made" annotation when present,
// otherwise from the first empty cell in snake order, otherwise the draft is
// complete and the current pick is one past the last. The current seat comes
// from a "next player" annotation when it names a known seat, otherwise from
// DrafterForPick. The annotation only decides who is on the clock and whether
// it is the user's turn. PicksUntilTurn is always counted from CurrentPick in
// snake order, so it can disagree with an annotation that contradicts the log.
func ParseDraftState(log PickLog, opts StateOptions) (*DraftState, error) {
	parsed, err := ParsePickLog(log, "")
	if err != nil {
		return nil, err
	}

	user, ok := findSeat(parsed.Seats, opts.TargetSeat)
	if !ok {
		return nil, &SeatNotFoundError{Target: opts.TargetSeat, Seats: parsed.Seats}
	}

	n := parsed.NumDrafters
	after := opts.doublePickAfterRound()

	filled := make(map[int]bool)
	for _, r := range parsed.Picks {
		if r.WasPicked {
			filled[r.PickPosition] = true
		}
	}
	firstEmpty, hasEmpty := firstUnfilledPick(filled, parsed.Rounds, n)

	var currentPick int
	switch {
	case parsed.Annotations.HasPicksMade:
		currentPick = parsed.Annotations.PicksMade + 1
	case hasEmpty:
		currentPick = firstEmpty
	default:
		currentPick = len(filled) + 1
	}

	currentSeat := DrafterForPick(currentPick, n, after)
	if next := parsed.Annotations.NextPlayer; next != "" {
		if idx, ok := findSeat(parsed.Seats, next); ok {
			currentSeat = idx
		}
	}

	state := &DraftState{
		Seats:                parsed.Seats,
		UserSeat:             user,
		UserName:             parsed.Seats[user],
		CurrentPick:          currentPick,
		CurrentSeat:          currentSeat,
		CurrentSeatName:      parsed.Seats[currentSeat],
		IsUserTurn:           currentSeat == user,
		SeatPicks:            make(map[string][]string, n),
		PoolSize:             parsed.PoolSize,
		PicksMade:            currentPick - 1,
		Complete:             !hasEmpty,
		DoublePickAfterRound: after,
	}
	if !state.IsUserTurn {
		state.PicksUntilTurn = picksUntilSeat(currentPick, user, n, after)
	}

	for _, seat := range parsed.Seats {
		state.SeatPicks[seat] = []string{}
	}
	picked := make([]PickRecord, 0, len(parsed.Picks))
	for _, r := range parsed.Picks {
		if r.WasPicked {
			picked = append(picked, r)
		} else {
			state.Available = append(state.Available, r.CardName)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].PickPosition < picked[j].PickPosition })
	for _, r := range picked {
		seatName := parsed.Seats[r.Seat]
		state.SeatPicks[seatName] = append(state.SeatPicks[seatName], r.CardName)
	}
	state.UserPicks = state.SeatPicks[state.UserName]

	return state, nil
}

// firstUnfilledPick returns the lowest pick number up to rounds*n with no
// card in it.
func firstUnfilledPick(filled map[int]bool, rounds, n int) (int, bool) {
	for p := 1; p <= rounds*n; p++ {
		if !filled[p] {
			return p, true
		}
	}
	return 0, false
}

// picksUntilSeat counts picks from current until seat is on the clock.
// Returns -1 when the seat does not come up within the lookahead window.
func picksUntilSeat(current, seat, n, after int) int {
	limit := current + lookaheadRounds*2*n
	for p := current + 1; p <= limit; p++ {
		if DrafterForPick(p, n, after) == seat {
			return p - current
		}
	}
	return -1
}

// findSeat matches a target name against seat names: exactly (ignoring case),
// then with decorations removed. Partial names never match.
func findSeat(seats []string, target string) (int, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return 0, false
	}

	for i, s := range seats {
		if strings.EqualFold(strings.TrimSpace(s), target) {
			return i, true
		}
	}

	bare := stripDecoration(target)
	if bare == "" {
		return 0, false
	}
	for i, s := range seats {
		if stripDecoration(s) == bare {
			return i, true
		}
	}
	return 0, false
}

// stripDecoration lower-cases a seat name and removes bracketed notes and
// symbols, e.g. "★ Alice (me)" -> "alice".
func stripDecoration(name string) string {
	var b strings.Builder
	depth := 0
	for _, r := range strings.ToLower(name) {
		switch {
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
