package engine

import (
	"strconv"
	"strings"
	"time"
)

// ToISODate normalizes a dash-separated date string toward YYYY-MM-DD.
// Respondents in most locales type DD-MM-YYYY; when the first component is
// numerically impossible as a month (> 12) the triplet is reordered.
// Everything else passes through unchanged (already ISO, or MM-DD-YYYY which
// is indistinguishable from ISO-with-small-year and left alone).
func ToISODate(s string) string {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return s
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return s
	}
	if first > 12 && first <= 31 {
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	return s
}

// parseDate parses a trigger or rule operand into a calendar date. ISO is
// tried first; pass-through triplets then fall back to month-first
// (MM-DD-YYYY), the shape the renderer's date inputs historically posted.
// Returns false for anything that is not a valid date; the evaluator maps
// that to an indeterminate outcome.
func parseDate(s string) (time.Time, bool) {
	iso := ToISODate(s)
	for _, layout := range []string{"2006-01-02", "2006-1-2", "01-02-2006", "1-2-2006"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
