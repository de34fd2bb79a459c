package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount parses a human-formatted price into a float, tolerating
// thousands separators and both decimal-comma and decimal-point locales.
//
// Disambiguation rules:
//   - both "," and "." present: whichever separator appears last is the
//     decimal point, the other is a thousands separator
//   - only "," present: it is a decimal comma unless the final group has
//     exactly three digits, in which case it separates thousands
//   - only "." present: same rule as the comma-only case
func ParseAmount(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			return r
		default:
			return -1
		}
	}, s)
	cleaned = strings.Trim(cleaned, ",.")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric amount in %q", s)
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", -1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = normalizeSingleSeparator(cleaned, ",")
	case lastDot >= 0:
		cleaned = normalizeSingleSeparator(cleaned, ".")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

func normalizeSingleSeparator(s, sep string) string {
	groups := strings.Split(s, sep)
	last := groups[len(groups)-1]
	if len(groups) > 2 || len(last) == 3 {
		// Grouped thousands: 1,299 or 1.234.567.
		return strings.Join(groups, "")
	}
	return strings.Join(groups[:len(groups)-1], "") + "." + last
}
