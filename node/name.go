package node

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayName turns an identifier into a pin label: "FastSkyLUT" becomes
// "Fast Sky LUT", "drawDebugTextures" becomes "Draw Debug Textures".
// Names already containing spaces are only title-cased.
func displayName(name string) string {
	if name == "" {
		return name
	}
	if !strings.ContainsRune(name, ' ') {
		name = insertSpaces(name)
	}
	return cases.Title(language.Und, cases.NoLower).String(name)
}

func insertSpaces(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
