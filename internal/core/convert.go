package core

// convert.go provides type conversion functions for raw source cells.
//
// These functions handle the messy reality of spreadsheet exports:
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Currency symbols and thousand separators in numbers
//   - Textual null markers ("nan", "None", empty)
//   - Excel formula prefixes (="value")
//   - Common CSV artifacts (BOM, weird quotes)
//
// Numeric conversions return a NullDecimal with Valid=false for empty or
// invalid input. Nothing ever defaults to zero.

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// nullSentinels is the single definition of textual "missing" markers.
// Compared case-insensitively after trimming.
var nullSentinels = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
	"<na>": true,
	"n/a":  true,
	"#n/a": true,
	"nat":  true,
}

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// IsNullSentinel reports whether s is empty or a textual null marker.
func IsNullSentinel(s string) bool {
	return nullSentinels[strings.ToLower(strings.TrimSpace(s))]
}

// ParseNumber converts a string to a decimal.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseNumber(s string) decimal.NullDecimal {
	s = CleanCell(s)
	if IsNullSentinel(s) {
		return decimal.NullDecimal{}
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "\u20ac", "") // Euro
	s = strings.ReplaceAll(s, "\u00a3", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseDate converts a string to a date.
// Supports multiple date formats and handles 2-digit years with pivot.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if IsNullSentinel(s) {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDate(t), true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return truncateToDate(t), true
		}
	}

	return time.Time{}, false
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// FoldHeader reduces a header cell to its matching form:
// lowercase, with spaces, hyphens and dots folded to underscores.
func FoldHeader(h string) string {
	h = strings.ToLower(CleanCell(strings.TrimPrefix(h, "\ufeff")))
	h = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '/':
			return '_'
		}
		return r
	}, h)
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	return strings.Trim(h, "_")
}
