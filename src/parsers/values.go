// backend/src/parsers/values.go
package parsers

import (
	"strconv"
	"strings"
	"time"
)

// Tokens that exports use for "no value". All parse to zero.
var emptyTokens = map[string]bool{
	"":     true,
	"n/a":  true,
	"null": true,
	"none": true,
	"--":   true,
}

// numberCleaner strips the decorations Amazon exports wrap numbers in:
// currency symbols, thousands separators, percent signs.
var numberCleaner = strings.NewReplacer("$", "", ",", "", "%", "")

// ParseNumber converts a raw text field to a float. Parsing is deliberately
// lenient: export formats are inconsistent enough that losing a single value
// to zero is preferred over aborting ingestion, so this never returns an
// error.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if emptyTokens[strings.ToLower(raw)] {
		return 0
	}
	cleaned := numberCleaner.Replace(raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// dateFormats is tried in order; the first format that parses wins.
// Ambiguous dates like 03/04/2024 are resolved by this order (US month-first
// before day-first), not by locale detection.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
}

// ParseDate parses a raw date field against the known export formats.
// Unparseable or empty input falls back to the current UTC date rather than
// erroring, matching the lenient policy of ParseNumber.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
