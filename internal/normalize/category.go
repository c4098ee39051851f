package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reNonAlpha = regexp.MustCompile(`[^a-z\s]`)

// Category cleans a raw category label: repairs UTF-8 text that was decoded
// as Latin-1, lower-cases, strips accents and keeps only letters and single
// spaces. Absent stays absent. Applying Category to its own output is a no-op.
func Category(raw *string) *string {
	if raw == nil {
		return nil
	}

	x := RepairMojibake(*raw)
	x = strings.ToLower(x)
	x = StripAccents(x)
	x = reNonAlpha.ReplaceAllString(x, "")
	x = strings.Join(strings.Fields(x), " ")
	return &x
}

// RepairMojibake reverses a UTF-8 -> Latin-1 mis-decoding ("MÃ³vil" ->
// "Móvil"). Strings that are not representable in Latin-1, or whose Latin-1
// bytes are not valid UTF-8, are returned unchanged.
func RepairMojibake(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			return s
		}
		buf = append(buf, b)
	}
	if !utf8.Valid(buf) {
		return s
	}
	return string(buf)
}

// StripAccents decomposes s (NFKD) and drops combining marks.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
