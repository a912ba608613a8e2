package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var turkishLower = cases.Lower(language.Turkish)

// Turkish letters without an ASCII decomposition
var turkishASCII = strings.NewReplacer(
	"ı", "i",
	"ğ", "g",
	"ş", "s",
	"ç", "c",
	"ö", "o",
	"ü", "u",
)

// FoldTurkish lower-cases s using Turkish casing rules (İ→i, I→ı) and maps the
// result to ASCII, so "IŞIK" and "ışık" both fold to "isik".
func FoldTurkish(s string) string {
	lowered := turkishLower.String(s)
	lowered = turkishASCII.Replace(lowered)
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), lowered)
	if err != nil {
		return lowered
	}
	return stripped
}

// Slugify builds a URL slug: "Kadıköy Şube" → "kadikoy-sube"
func Slugify(s string) string {
	folded := FoldTurkish(s)

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
