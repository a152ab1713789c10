package analytics

import (
	"strings"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
)

// FilterByColor keeps the cards whose identity includes every color of the
// filter. A card's identity is the union of the colors observed in drafts and
// the color identity known to lookup. The "C" filter keeps colorless cards.
// An empty filter returns the input unchanged.
func FilterByColor(all []CardStats, color string, lookup cards.Lookup) []CardStats {
	color = strings.ToUpper(strings.TrimSpace(color))
	if color == "" {
		return all
	}

	var out []CardStats
	for _, cs := range all {
		if matchesColor(identity(cs, lookup), color) {
			out = append(out, cs)
		}
	}
	return out
}

func identity(cs CardStats, lookup cards.Lookup) string {
	id := strings.Join(cs.Colors, "")
	if lookup != nil {
		if info, ok := lookup.Lookup(cs.Name); ok {
			id += info.ColorIdentity
		}
	}
	return cards.CanonicalColors(id)
}

func matchesColor(id, filter string) bool {
	if filter == cards.Colorless {
		return cards.ContainsColor(id, cards.Colorless)
	}
	wanted := cards.CanonicalColors(filter)
	if wanted == "" {
		return false
	}
	for _, c := range wanted {
		if !cards.ContainsColor(id, string(c)) {
			return false
		}
	}
	return true
}
