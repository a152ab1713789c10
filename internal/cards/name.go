// Package cards holds the card identity rules shared by every part of the
// companion: name normalization, color codes, and the card metadata catalog.
package cards

import (
	"regexp"
	"strings"
)

// duplicateSuffix matches the " <digits>" marker spreadsheets append to
// repeated copies of a card ("Scalding Tarn 2").
var duplicateSuffix = regexp.MustCompile(` [0-9]+$`)

// NormalizeName returns the canonical display name of a card.
// Whitespace is trimmed and one trailing " <digits>" duplicate marker is removed.
//
// Every component must use this function (or LookupKey) when it compares card
// names, otherwise copies of one card are counted as different cards.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if loc := duplicateSuffix.FindStringIndex(name); loc != nil {
		name = strings.TrimSpace(name[:loc[0]])
	}
	return name
}

// LookupKey returns the case-insensitive key used for map lookups.
func LookupKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}
