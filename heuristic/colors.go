package heuristic

import (
	"regexp"
	"strings"
)

// fallbackColor is the neutral gray returned when a color token cannot be
// resolved.
const fallbackColor = "#808080"

var hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

type colorEntry struct {
	Name string
	Hex  string
}

// colorNames maps lowercase color names to canonical hex. Ordered so that
// compound names ("dark brown") are tried before their generic base
// ("brown") during substring matching.
var colorNames = []colorEntry{
	{"dark brown", "#3B2005"},
	{"light brown", "#A0785A"},
	{"brown", "#8B4513"},
	{"dark gray", "#404040"},
	{"dark grey", "#404040"},
	{"light gray", "#D3D3D3"},
	{"light grey", "#D3D3D3"},
	{"charcoal", "#36454F"},
	{"gray", "#808080"},
	{"grey", "#808080"},
	{"off-white", "#FAF9F6"},
	{"white", "#FFFFFF"},
	{"black", "#000000"},
	{"navy", "#000080"},
	{"teal", "#008080"},
	{"blue", "#1E3A8A"},
	{"burgundy", "#800020"},
	{"red", "#B91C1C"},
	{"olive", "#556B2F"},
	{"green", "#166534"},
	{"mustard", "#D4A017"},
	{"yellow", "#EAB308"},
	{"orange", "#EA580C"},
	{"pink", "#F472B6"},
	{"purple", "#6B21A8"},
	{"beige", "#F5F5DC"},
	{"cream", "#FFFDD0"},
	{"tan", "#D2B48C"},
	{"gold", "#D4AF37"},
	{"silver", "#C0C0C0"},
	{"natural", "#DEB887"},
	{"walnut", "#5C4033"},
	{"oak", "#C9A66B"},
}

var colorNameIndex = func() map[string]string {
	m := make(map[string]string, len(colorNames))
	for _, c := range colorNames {
		if _, ok := m[c.Name]; !ok {
			m[c.Name] = c.Hex
		}
	}
	return m
}()

// NormalizeColor canonicalizes a free-form color token into an uppercase
// #RRGGBB string. Resolution order: hex passthrough (3-digit expanded),
// exact name match, substring match in either direction, neutral gray.
// The function is pure and idempotent.
func NormalizeColor(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return fallbackColor
	}

	if m := hexColorRe.FindStringSubmatch(token); m != nil {
		return "#" + strings.ToUpper(expandShortHex(m[1]))
	}

	name := strings.ToLower(token)
	if hex, ok := colorNameIndex[name]; ok {
		return hex
	}

	for _, c := range colorNames {
		if strings.Contains(name, c.Name) || strings.Contains(c.Name, name) {
			return c.Hex
		}
	}

	return fallbackColor
}

// expandShortHex turns "abc" into "aabbcc"; 6-digit values pass through.
func expandShortHex(hex string) string {
	if len(hex) != 3 {
		return hex
	}
	var b strings.Builder
	for _, r := range hex {
		b.WriteRune(r)
		b.WriteRune(r)
	}
	return b.String()
}
