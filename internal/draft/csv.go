package draft

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// MinGridRows is the smallest pick grid that can be parsed: a header row and
// one round row.
const MinGridRows = 2

// poolHeaderLabels are first-row cells of a pool export that name the column
// rather than a card.
var poolHeaderLabels = map[string]bool{"card": true, "cards": true, "card name": true, "name": true, "pool": true}

// ReadPickLogCSV reads a pick grid and a pool listing exported as CSV.
// The first record of picks is the header row. Every non-empty cell of pool
// is one card copy.
func ReadPickLogCSV(picks, pool io.Reader) (PickLog, error) {
	grid, err := readCSV(picks)
	if err != nil {
		return PickLog{}, fmt.Errorf("read pick grid: %w", err)
	}
	if len(grid) < MinGridRows {
		return PickLog{}, fmt.Errorf("%w: pick grid has %d rows, need at least %d (header + one round)",
			ErrTooFewRows, len(grid), MinGridRows)
	}

	var poolNames []string
	if pool != nil {
		records, err := readCSV(pool)
		if err != nil {
			return PickLog{}, fmt.Errorf("read pool listing: %w", err)
		}
		for i, record := range records {
			for _, cell := range record {
				cell = strings.TrimSpace(cell)
				if cell == "" || (i == 0 && poolHeaderLabels[strings.ToLower(cell)]) {
					continue
				}
				poolNames = append(poolNames, cell)
			}
		}
	}

	return PickLog{Header: grid[0], Rows: grid[1:], Pool: poolNames}, nil
}

// ReadPickLogFiles opens and reads a pick grid and pool listing from disk.
// An empty poolPath means the draft has no pool listing.
func ReadPickLogFiles(picksPath, poolPath string) (PickLog, error) {
	picks, err := os.Open(picksPath)
	if err != nil {
		return PickLog{}, fmt.Errorf("open pick grid: %w", err)
	}
	defer picks.Close()

	if poolPath == "" {
		return ReadPickLogCSV(picks, nil)
	}

	pool, err := os.Open(poolPath)
	if err != nil {
		return PickLog{}, fmt.Errorf("open pool listing: %w", err)
	}
	defer pool.Close()

	return ReadPickLogCSV(picks, pool)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}
