package storage

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
)

// Fingerprint identifies a parsed draft by content: the seat list and every
// pick record with its draft ID left out. Two imports of the same pick grid
// get the same fingerprint.
func Fingerprint(parsed *draft.ParsedDraft) string {
	lines := make([]string, 0, len(parsed.Picks))
	for _, r := range parsed.Picks {
		lines = append(lines, fmt.Sprintf("%s|%d|%d|%t|%d|%s",
			cards.LookupKey(r.CardName), r.PickPosition, r.CopyNumber, r.WasPicked, r.Seat, r.Color))
	}
	sort.Strings(lines)

	h, _ := blake2b.New256(nil) // only fails for oversized keys
	fmt.Fprintf(h, "seats:%s\n", strings.Join(parsed.Seats, "\x1f"))
	for _, line := range lines {
		fmt.Fprintln(h, line)
	}
	return hex.EncodeToString(h.Sum(nil))
}
