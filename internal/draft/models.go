// Package draft models rotisserie drafts: the snake turn order, the pick-log
// parser that turns a spreadsheet grid into pick records, and the live draft
// state reconstructed from an in-progress grid.
package draft

const (
	// NoSeat is the seat of a card copy nobody picked.
	NoSeat = -1

	// DefaultNumDrafters is used when a draft's seat count is unknown.
	// Historical data relies on this exact value.
	DefaultNumDrafters = 10
)

// PickRecord is one copy of one card in one draft.
type PickRecord struct {
	CardName     string `json:"card_name"`     // normalized display name
	PickPosition int    `json:"pick_position"` // absolute pick, or pool size when unpicked
	CopyNumber   int    `json:"copy_number"`   // 1-indexed among copies of this card in the draft
	WasPicked    bool   `json:"was_picked"`
	DraftID      string `json:"draft_id"`
	Seat         int    `json:"seat"` // 0-indexed, NoSeat when unpicked
	Color        string `json:"color,omitempty"`
}

// Metadata describes one draft.
type Metadata struct {
	DraftID     string `json:"draft_id"`
	Name        string `json:"name"`
	Date        string `json:"date"` // ISO date, YYYY-MM-DD
	NumDrafters int    `json:"num_drafters"`
}

// Annotations holds the optional explicit state found in a pick log.
type Annotations struct {
	PicksMade    int    `json:"picks_made"`
	HasPicksMade bool   `json:"has_picks_made"`
	NextPlayer   string `json:"next_player,omitempty"`
}

// ParsedDraft is the result of parsing a pick log.
type ParsedDraft struct {
	DraftID     string       `json:"draft_id"`
	NumDrafters int          `json:"num_drafters"`
	Seats       []string     `json:"seats"`
	Picks       []PickRecord `json:"picks"`
	PoolSize    int          `json:"pool_size"`
	Rounds      int          `json:"rounds"` // highest round number present in the grid
	Annotations Annotations  `json:"annotations"`
}

// PickedCount returns the number of records that were picked.
func (p *ParsedDraft) PickedCount() int {
	n := 0
	for _, r := range p.Picks {
		if r.WasPicked {
			n++
		}
	}
	return n
}

// DraftState is a snapshot of an in-progress draft from one seat's point of view.
type DraftState struct {
	Seats                []string            `json:"seats"`
	UserSeat             int                 `json:"user_seat"`
	UserName             string              `json:"user_name"`
	CurrentPick          int                 `json:"current_pick"`
	CurrentSeat          int                 `json:"current_seat"`
	CurrentSeatName      string              `json:"current_seat_name"`
	IsUserTurn           bool                `json:"is_user_turn"`
	PicksUntilTurn       int                 `json:"picks_until_turn"`
	UserPicks            []string            `json:"user_picks"`
	SeatPicks            map[string][]string `json:"seat_picks"`
	Available            []string            `json:"available"`
	PoolSize             int                 `json:"pool_size"`
	PicksMade            int                 `json:"picks_made"`
	Complete             bool                `json:"complete"`
	DoublePickAfterRound int                 `json:"double_pick_after_round"`
}
