package cards

import (
	"strings"
)

// Color constants for WUBRG
const (
	ColorWhite = "W"
	ColorBlue  = "U"
	ColorBlack = "B"
	ColorRed   = "R"
	ColorGreen = "G"

	// Colorless is the filter value that selects cards without a color.
	Colorless = "C"
)

// AllColors lists all five colors in WUBRG order.
var AllColors = []string{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}

// IsColorCode reports whether s looks like a compact color identity such as
// "W", "ub" or "WUBRG". Empty strings are not color codes.
func IsColorCode(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > len(AllColors) {
		return false
	}
	for _, r := range strings.ToUpper(s) {
		if !strings.ContainsRune("WUBRG", r) {
			return false
		}
	}
	return true
}

// CanonicalColors upper-cases a color code, drops duplicates and unknown
// letters, and orders what is left as WUBRG.
// Example: "gw" -> "WG", "UUB" -> "UB"
func CanonicalColors(s string) string {
	upper := strings.ToUpper(s)
	var b strings.Builder
	for _, c := range AllColors {
		if strings.Contains(upper, c) {
			b.WriteString(c)
		}
	}
	return b.String()
}

// ContainsColor reports whether the color identity includes the given color.
// The Colorless filter matches an empty identity.
func ContainsColor(identity, color string) bool {
	color = strings.ToUpper(strings.TrimSpace(color))
	if color == Colorless {
		return CanonicalColors(identity) == ""
	}
	return color != "" && strings.Contains(CanonicalColors(identity), color)
}
