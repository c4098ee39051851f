package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reCurrency = regexp.MustCompile(`[\$-]`)

// Number parses a textual amount after dropping "$" and "-" signs and
// surrounding whitespace. Unparsable text, NaN and infinities are absent.
func Number(raw *string) *float64 {
	if raw == nil {
		return nil
	}

	s := strings.TrimSpace(reCurrency.ReplaceAllString(*raw, ""))
	if s == "" || strings.ContainsAny(s, "xX_") {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
