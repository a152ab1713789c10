// Package models holds the row types of the draft history database.
package models

import "time"

// Draft is one imported rotisserie draft.
type Draft struct {
	ID          string
	Name        string
	Date        string   // ISO date, empty when unknown
	NumDrafters *int     // Nullable
	Seats       []string // stored as a JSON array
	PoolSize    int
	Fingerprint string // BLAKE2b-256 of the pick list, hex encoded
	ImportedAt  time.Time
	PickCount   int // populated by list queries
}

// Pick is one card copy of one draft.
type Pick struct {
	ID           int64
	DraftID      string
	CardName     string
	CardKey      string // lower-cased normalized name
	PickPosition int
	CopyNumber   int
	WasPicked    bool
	Seat         int // -1 when unpicked
	Color        string
}

// SeatResult is the accumulated match record of one seat in one draft.
type SeatResult struct {
	DraftID   string
	Seat      int
	GamesWon  int
	GamesLost int
	UpdatedAt time.Time
}

// Card is cached card metadata.
type Card struct {
	Key           string
	Name          string
	TypeLine      string
	ColorIdentity string
	UpdatedAt     time.Time
}
