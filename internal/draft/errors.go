package draft

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTooFewRows means the pick log lacks a header row or data rows.
	ErrTooFewRows = errors.New("pick log has too few rows")

	// ErrNoSeats means no seat names could be read from the header row.
	ErrNoSeats = errors.New("no seat names found")

	// ErrSeatNotFound means the configured seat is not one of the drafters.
	ErrSeatNotFound = errors.New("seat not found")
)

// SeatNotFoundError reports a target seat missing from the pick log and lists
// every seat that was found so the configuration can be corrected.
type SeatNotFoundError struct {
	Target string
	Seats  []string
}

func (e *SeatNotFoundError) Error() string {
	quoted := make([]string, len(e.Seats))
	for i, s := range e.Seats {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("seat %q not found; drafters in this log are: %s", e.Target, strings.Join(quoted, ", "))
}

func (e *SeatNotFoundError) Unwrap() error { return ErrSeatNotFound }
