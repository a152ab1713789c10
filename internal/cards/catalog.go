package cards

import (
	"sort"
	"strings"
)

// Info is the slice of card metadata the analytics need.
type Info struct {
	Name          string `json:"name"`
	TypeLine      string `json:"type_line"`
	ColorIdentity string `json:"color_identity"` // compact WUBRG string, empty for colorless
}

// IsLand reports whether the card's type line marks it as a land.
func (i Info) IsLand() bool {
	return strings.Contains(strings.ToLower(i.TypeLine), "land")
}

// Lookup resolves card metadata by name. Implementations must normalize the
// name with LookupKey. A missing card is not an error.
type Lookup interface {
	Lookup(name string) (Info, bool)
}

// Catalog is an in-memory Lookup keyed by LookupKey.
type Catalog struct {
	cards map[string]Info
}

// NewCatalog creates a catalog from the given cards. Later entries with the
// same key replace earlier ones.
func NewCatalog(infos ...Info) *Catalog {
	c := &Catalog{cards: make(map[string]Info, len(infos))}
	for _, info := range infos {
		c.Add(info)
	}
	return c
}

// Add inserts or replaces a card.
func (c *Catalog) Add(info Info) {
	info.Name = NormalizeName(info.Name)
	info.ColorIdentity = CanonicalColors(info.ColorIdentity)
	c.cards[LookupKey(info.Name)] = info
}

// Lookup implements Lookup. A nil catalog finds nothing.
func (c *Catalog) Lookup(name string) (Info, bool) {
	if c == nil {
		return Info{}, false
	}
	info, ok := c.cards[LookupKey(name)]
	return info, ok
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}

// Names returns the display names of all cards, sorted.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.cards))
	for _, info := range c.cards {
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return names
}

// IsLand reports whether lookup knows the card as a land. Unknown cards and a
// nil lookup are treated as non-lands.
func IsLand(lookup Lookup, name string) bool {
	if lookup == nil {
		return false
	}
	info, ok := lookup.Lookup(name)
	return ok && info.IsLand()
}
