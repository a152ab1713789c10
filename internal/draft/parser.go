package draft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
)

// PickLog is the raw tabular input of one draft.
//
// Header holds a label in column 0 followed by one seat name per column,
// ended by an arrow marker or an empty cell. Each row holds a round number in
// column 0 and the card each seat took that round in the following columns,
// optionally followed by one color code per seat. Pool lists every card
// available when the draft started.
type PickLog struct {
	Header []string
	Rows   [][]string
	Pool   []string
}

// pickedCell is a filled grid cell before copy numbers are assigned.
type pickedCell struct {
	position int
	seat     int
	name     string
	color    string
}

// ParsePickLog turns a pick log into pick records. Picked copies get their
// absolute snake position; pool copies nobody took are appended with
// WasPicked false, PickPosition set to the pool size and Seat NoSeat.
func ParsePickLog(log PickLog, draftID string) (*ParsedDraft, error) {
	if len(log.Header) == 0 || len(log.Rows) == 0 {
		return nil, fmt.Errorf("%w: got %d header cells and %d data rows, need a header row and at least one round row",
			ErrTooFewRows, len(log.Header), len(log.Rows))
	}

	seats, err := parseSeats(log.Header)
	if err != nil {
		return nil, err
	}
	numDrafters := len(seats)

	cells, rounds := collectCells(log.Rows, numDrafters)
	pool := normalizePool(log.Pool)

	fold := newCopyFold(draftID)
	for _, c := range cells {
		fold.addPicked(c)
	}
	fold.addUnpicked(pool)

	annotations := scanAnnotations(append([][]string{log.Header}, log.Rows...))

	return &ParsedDraft{
		DraftID:     draftID,
		NumDrafters: numDrafters,
		Seats:       seats,
		Picks:       fold.records,
		PoolSize:    len(pool),
		Rounds:      rounds,
		Annotations: annotations,
	}, nil
}

// parseSeats reads seat names from header column 1 onward until a marker
// token or an empty cell.
func parseSeats(header []string) ([]string, error) {
	var seats []string
	for _, cell := range header[1:] {
		name := strings.TrimSpace(cell)
		if name == "" || isMarker(name) {
			break
		}
		seats = append(seats, name)
	}
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: header must list seat names starting at column 2, got %q", ErrNoSeats, header)
	}
	return seats, nil
}

// isMarker reports whether a cell is made only of arrow-like characters.
func isMarker(s string) bool {
	return strings.Trim(s, "→←↔⇒⇐⇨➔➜»«<>-=↓↑ ") == ""
}

// collectCells reads every filled seat cell from rows whose first column is a
// round number. Cells are returned in scan order, row by row and left to
// right, together with the highest round number seen. Copy numbers follow
// this order, so in a reverse round the leftmost copy is numbered first even
// though it was picked later.
func collectCells(rows [][]string, numDrafters int) ([]pickedCell, int) {
	var cells []pickedCell
	maxRound := 0

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		round, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || round < 1 {
			continue
		}
		if round > maxRound {
			maxRound = round
		}

		colors := detectSeatColors(row, numDrafters)
		for seat := 0; seat < numDrafters && seat+1 < len(row); seat++ {
			name := cards.NormalizeName(row[seat+1])
			if name == "" {
				continue
			}
			c := pickedCell{
				position: absolutePick(round, seat, numDrafters),
				seat:     seat,
				name:     name,
			}
			if colors != nil {
				c.color = colors[seat]
			}
			cells = append(cells, c)
		}
	}

	return cells, maxRound
}

// normalizePool drops empty entries and normalizes names.
func normalizePool(pool []string) []string {
	out := make([]string, 0, len(pool))
	for _, name := range pool {
		if n := cards.NormalizeName(name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// copyFold accumulates pick records for one draft, numbering copies of each
// card in the order they are added.
type copyFold struct {
	draftID string
	copies  map[string]int
	records []PickRecord
}

func newCopyFold(draftID string) *copyFold {
	return &copyFold{draftID: draftID, copies: make(map[string]int)}
}

func (f *copyFold) nextCopy(name string) int {
	key := cards.LookupKey(name)
	f.copies[key]++
	return f.copies[key]
}

func (f *copyFold) addPicked(c pickedCell) {
	f.records = append(f.records, PickRecord{
		CardName:     c.name,
		PickPosition: c.position,
		CopyNumber:   f.nextCopy(c.name),
		WasPicked:    true,
		DraftID:      f.draftID,
		Seat:         c.seat,
		Color:        c.color,
	})
}

// addUnpicked appends one record for every pool copy beyond the number of
// copies already picked.
func (f *copyFold) addUnpicked(pool []string) {
	poolSize := len(pool)
	inPool := make(map[string]int)
	for _, name := range pool {
		key := cards.LookupKey(name)
		inPool[key]++
		if inPool[key] <= f.copies[key] {
			continue
		}
		f.records = append(f.records, PickRecord{
			CardName:     name,
			PickPosition: poolSize,
			CopyNumber:   f.nextCopy(name),
			WasPicked:    false,
			DraftID:      f.draftID,
			Seat:         NoSeat,
		})
	}
}

var (
	picksMadeLabels  = []string{"picks made", "total picks"}
	nextPlayerLabels = []string{"next player", "next pick", "next up", "up next", "on the clock"}
)

// scanAnnotations looks for "picks made" and "next player" labels anywhere in
// the grid. The value is either after a colon in the same cell or in the next
// non-empty cell of the row.
func scanAnnotations(rows [][]string) Annotations {
	var a Annotations
	for _, row := range rows {
		for i, cell := range row {
			label, inline := splitLabel(cell)
			switch {
			case matchesLabel(label, picksMadeLabels) && !a.HasPicksMade:
				value := annotationValue(row, i, inline)
				if n, err := strconv.Atoi(value); err == nil && n >= 0 {
					a.PicksMade = n
					a.HasPicksMade = true
				}
			case matchesLabel(label, nextPlayerLabels) && a.NextPlayer == "":
				a.NextPlayer = annotationValue(row, i, inline)
			}
		}
	}
	return a
}

func splitLabel(cell string) (label, inline string) {
	cell = strings.TrimSpace(cell)
	if i := strings.Index(cell, ":"); i >= 0 {
		return strings.ToLower(strings.TrimSpace(cell[:i])), strings.TrimSpace(cell[i+1:])
	}
	return strings.ToLower(cell), ""
}

func matchesLabel(label string, labels []string) bool {
	for _, l := range labels {
		if label == l {
			return true
		}
	}
	return false
}

func annotationValue(row []string, labelIdx int, inline string) string {
	if inline != "" {
		return inline
	}
	for _, cell := range row[labelIdx+1:] {
		if v := strings.TrimSpace(cell); v != "" {
			return v
		}
	}
	return ""
}
