package draft

import (
	"strings"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
)

// detectSeatColors finds per-seat color annotations in the columns after the
// seat cells of a round row.
//
// Two windows of numDrafters cells are tried: the last cells of the row, then
// the cells right after the seats. A window is accepted when every non-empty
// cell is a color code and at least one cell is non-empty; empty cells mean
// colorless. Returns nil when no window fits, in which case the row carries
// no colors.
func detectSeatColors(row []string, numDrafters int) []string {
	if numDrafters <= 0 || len(row) <= numDrafters+1 {
		return nil
	}
	tail := row[numDrafters+1:]
	if len(tail) < numDrafters {
		return nil
	}

	windows := [][]string{tail[len(tail)-numDrafters:], tail[:numDrafters]}
	for _, window := range windows {
		if colors, ok := colorWindow(window); ok {
			return colors
		}
	}
	return nil
}

func colorWindow(window []string) ([]string, bool) {
	colors := make([]string, len(window))
	found := false
	for i, cell := range window {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if !cards.IsColorCode(cell) {
			return nil, false
		}
		colors[i] = cards.CanonicalColors(cell)
		found = true
	}
	return colors, found
}
