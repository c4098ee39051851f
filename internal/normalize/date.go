package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultReferenceYear is the year every parsed date is moved into.
const DefaultReferenceYear = 2025

// DateLayout is the rendering used for normalized dates (DD-MM-YYYY).
const DateLayout = "02-01-2006"

var (
	reLetters   = regexp.MustCompile(`[a-zA-Z]`)
	reNonDate   = regexp.MustCompile(`[^0-9\-/]`)
	reYearOnly  = regexp.MustCompile(`^\d{4}$`)
	dayFirst    = []string{"2-1-2006", "2-1-06", "02012006"}
	yearFirst   = []string{"2006-1-2", "20060102"}
	dateLayouts = append(append([]string{}, dayFirst...), yearFirst...)
)

// Date parses one raw date cell. Day-first layouts win over year-first ones,
// a bare four digit year means January 1, and the year is then replaced by
// referenceYear. Anything unparsable, including a day that does not exist in
// the reference year, is absent.
func Date(raw *string, referenceYear int) *time.Time {
	if raw == nil {
		return nil
	}

	cleaned := reLetters.ReplaceAllString(*raw, "")
	cleaned = reNonDate.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return nil
	}

	var parsed time.Time
	if reYearOnly.MatchString(cleaned) {
		year, _ := strconv.Atoi(cleaned)
		parsed = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		var ok bool
		if parsed, ok = parseLayouts(strings.ReplaceAll(cleaned, "/", "-")); !ok {
			return nil
		}
	}

	forced := time.Date(referenceYear, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	if forced.Day() != parsed.Day() {
		// 29 February outside a leap year
		return nil
	}
	return &forced
}

func parseLayouts(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Dates normalizes a whole date column and forward fills gaps with the
// nearest preceding date in row order. Leading gaps stay absent.
func Dates(raws []*string, referenceYear int) []*time.Time {
	out := make([]*time.Time, len(raws))
	var last *time.Time
	for i, raw := range raws {
		if d := Date(raw, referenceYear); d != nil {
			out[i] = d
			last = d
			continue
		}
		if last != nil {
			v := *last
			out[i] = &v
		}
	}
	return out
}

// FormatDate renders d as DD-MM-YYYY, or "" when absent.
func FormatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}
