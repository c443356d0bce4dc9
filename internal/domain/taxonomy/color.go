package taxonomy

import "strings"

// Color is a canonicalized color name.
type Color string

// canonicalColors is the simple wheel used by the harmony rules.
var canonicalColors = []Color{
	"red",
	"orange",
	"yellow",
	"green",
	"blue",
	"indigo",
	"purple",
	"pink",
	"brown",
	"beige",
	"gray",
	"black",
	"white",
}

var canonicalColorSet = func() map[Color]struct{} {
	set := make(map[Color]struct{}, len(canonicalColors))
	for _, c := range canonicalColors {
		set[c] = struct{}{}
	}
	return set
}()

// colorAliases collapses common raw color strings onto canonical names.
var colorAliases = map[string]Color{
	"navy blue":  "navy",
	"navy":       "navy",
	"light blue": "blue",
	"sky blue":   "blue",
	"blue":       "blue",
	"black":      "black",
	"white":      "white",
	"off white":  "white",
	"cream":      "beige",
	"beige":      "beige",
	"tan":        "beige",
	"brown":      "brown",
	"gray":       "gray",
	"grey":       "gray",
	"green":      "green",
	"olive":      "green",
	"red":        "red",
	"burgundy":   "red",
	"pink":       "pink",
	"yellow":     "yellow",
	"orange":     "orange",
}

// neutralColors always pair cleanly with any base outfit.
var neutralColors = map[Color]struct{}{
	"black": {},
	"white": {},
	"gray":  {},
	"beige": {},
	"brown": {},
	"navy":  {},
}

// complementaryPairs lists unordered color pairs considered complementary.
var complementaryPairs = map[[2]Color]struct{}{
	{"red", "green"}:     {},
	{"blue", "orange"}:   {},
	{"yellow", "purple"}: {},
	{"pink", "green"}:    {},
	{"black", "white"}:   {},
}

// analogousChains lists ordered triplets adjacent on the wheel.
var analogousChains = [][3]Color{
	{"red", "orange", "yellow"},
	{"orange", "yellow", "green"},
	{"yellow", "green", "blue"},
	{"green", "blue", "indigo"},
	{"blue", "indigo", "purple"},
	{"indigo", "purple", "pink"},
}

// NormalizeColor maps a raw color string onto its canonical name.
// Unrecognized values pass through lowercased and trimmed.
func NormalizeColor(raw string) Color {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := colorAliases[key]; ok {
		return c
	}
	return Color(key)
}

// NormalizeColors normalizes and deduplicates a color list, preserving
// order and dropping empty values.
func NormalizeColors(raw []string) []Color {
	var out []Color
	seen := make(map[Color]struct{}, len(raw))
	for _, r := range raw {
		c := NormalizeColor(r)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// CanonicalColor reports whether c sits on the harmony wheel.
func CanonicalColor(c Color) bool {
	_, ok := canonicalColorSet[c]
	return ok
}

// NeutralColor reports whether c is a neutral that pairs with anything.
func NeutralColor(c Color) bool {
	_, ok := neutralColors[c]
	return ok
}

// Monochrome reports whether all colors collapse to a single tone.
func Monochrome(colors []Color) bool {
	unique := make(map[Color]struct{}, len(colors))
	for _, c := range colors {
		if c == "" {
			continue
		}
		unique[c] = struct{}{}
	}
	return len(unique) <= 1
}

// Complementary reports whether two distinct colors form a complementary pair.
func Complementary(a, b Color) bool {
	if a == b {
		return false
	}
	if _, ok := complementaryPairs[[2]Color{a, b}]; ok {
		return true
	}
	_, ok := complementaryPairs[[2]Color{b, a}]
	return ok
}

// AnalogousTriplet reports whether the first three colors match an
// adjacent chain on the wheel, in order.
func AnalogousTriplet(colors []Color) bool {
	if len(colors) < 3 {
		return false
	}
	triplet := [3]Color{colors[0], colors[1], colors[2]}
	for _, chain := range analogousChains {
		if triplet == chain {
			return true
		}
	}
	return false
}

// HarmonyRule names the color scheme matched by an outfit.
type HarmonyRule string

// Harmony rules in decreasing order of score.
const (
	HarmonyMonochrome    HarmonyRule = "monochrome"
	HarmonyComplementary HarmonyRule = "complementary"
	HarmonyAnalogous     HarmonyRule = "analogous"
	HarmonyMuted         HarmonyRule = "muted"
	HarmonyClashing      HarmonyRule = "clashing"
	HarmonyNone          HarmonyRule = "none"
)

// Harmony scores per rule.
const (
	scoreMonochrome    = 1.0
	scoreComplementary = 0.85
	scoreAnalogous     = 0.75
	scoreMuted         = 0.5
	scoreClashing      = 0.35
)

// EvaluateHarmony matches the strongest harmony rule for an ordered color
// sequence and returns the rule together with its score in [0, 1].
func EvaluateHarmony(colors []Color) (HarmonyRule, float64) {
	if len(colors) == 0 {
		return HarmonyNone, 0.0
	}
	if Monochrome(colors) {
		return HarmonyMonochrome, scoreMonochrome
	}
	if len(colors) >= 2 && Complementary(colors[0], colors[1]) {
		return HarmonyComplementary, scoreComplementary
	}
	if AnalogousTriplet(colors) {
		return HarmonyAnalogous, scoreAnalogous
	}
	unique := make(map[Color]struct{}, len(colors))
	for _, c := range colors {
		unique[c] = struct{}{}
	}
	if len(unique) <= 3 {
		return HarmonyMuted, scoreMuted
	}
	return HarmonyClashing, scoreClashing
}

// AccentCompatible reports whether an accent piece fits a base outfit:
// any accent color that is neutral, shared with the base, or present in
// the palette qualifies.
func AccentCompatible(accent, base, palette []Color) bool {
	baseSet := make(map[Color]struct{}, len(base))
	for _, c := range base {
		baseSet[c] = struct{}{}
	}
	paletteSet := make(map[Color]struct{}, len(palette))
	for _, c := range palette {
		paletteSet[c] = struct{}{}
	}
	for _, c := range accent {
		if NeutralColor(c) {
			return true
		}
		if _, ok := baseSet[c]; ok {
			return true
		}
		if _, ok := paletteSet[c]; ok {
			return true
		}
	}
	return false
}
