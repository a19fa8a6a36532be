package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain integer", "42", 42},
		{"plain decimal", "3.14", 3.14},
		{"currency with thousands separator", "$1,234.56", 1234.56},
		{"percent sign", "12%", 12},
		{"decimal percent", "4.5%", 4.5},
		{"leading and trailing spaces", "  7.5  ", 7.5},
		{"negative value", "-2.5", -2.5},
		{"empty string", "", 0},
		{"n/a token", "N/A", 0},
		{"null token", "null", 0},
		{"none token", "None", 0},
		{"double dash token", "--", 0},
		{"garbage text", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"iso format", "2024-03-05"},
		{"us slash format", "03/05/2024"},
		{"iso with slashes", "2024/03/05"},
		{"us dash format", "03-05-2024"},
		{"surrounding whitespace", " 2024-03-05 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ParseDate(tt.input).Equal(want), "parsed %q", tt.input)
		})
	}
}

func TestParseDate_AmbiguousPrefersMonthFirst(t *testing.T) {
	// 02/03/2024 parses as February 3rd, not March 2nd.
	got := ParseDate("02/03/2024")
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestParseDate_FallbackToToday(t *testing.T) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"", "not a date", "13/45/99"} {
		got := ParseDate(input)
		assert.True(t, got.Equal(today), "input %q should fall back to today, got %v", input, got)
	}
}
