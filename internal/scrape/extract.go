package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reUF      = regexp.MustCompile(`(?i)([\d.,]+)\s*UF`)
	reSqMeter = regexp.MustCompile(`(?i)([\d.,]+)\s*m`)
)

// ExtractUF reads a UF amount written with Chilean separators
// ("4.500 UF" is 4500, "1.234,5 UF" is 1234.5).
func ExtractUF(text string) (float64, bool) {
	return extractNumber(reUF, text)
}

// ExtractSquareMeters reads a surface such as "120 m²" or "85,5m2".
func ExtractSquareMeters(text string) (float64, bool) {
	return extractNumber(reSqMeter, text)
}

func extractNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	s := strings.ReplaceAll(m[1], ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
