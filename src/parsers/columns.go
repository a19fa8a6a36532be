// backend/src/parsers/columns.go
package parsers

import "time"

// Ordered header spellings accepted for each canonical field. Amazon has
// renamed columns across export versions and ad products; extractors try the
// spellings in order and take the first non-empty match, so no caller needs
// per-format branches for basic field access.
var (
	campaignIDColumns   = []string{"campaign id", "campaignid", "campaign"}
	campaignNameColumns = []string{"campaign name", "campaignname", "campaign"}
	dateColumns         = []string{"date", "day", "report date"}
	impressionsColumns  = []string{"impressions", "impr"}
	clicksColumns       = []string{"clicks", "click"}
	spendColumns        = []string{"spend", "cost", "total spend"}
	salesColumns        = []string{"sales", "attributed sales 7d", "attributed sales 14d", "attributed sales 30d"}
	ordersColumns       = []string{"orders", "attributed orders 7d", "attributed orders 14d", "attributed orders 30d"}
	unitsColumns        = []string{"units", "attributed units 7d", "attributed units 14d", "attributed units 30d"}
	keywordColumns      = []string{"keyword", "targeting", "keyword text"}
	matchTypeColumns    = []string{"match type", "matchtype", "targeting type"}
	searchTermColumns   = []string{"search term", "customer search term"}
)

// lookupColumn returns the first non-empty value among the candidate headers.
// Row keys are expected to be lower-cased and trimmed already.
func lookupColumn(row map[string]string, candidates []string) (string, bool) {
	for _, col := range candidates {
		if v, ok := row[col]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func stringColumn(row map[string]string, candidates []string) string {
	v, _ := lookupColumn(row, candidates)
	return v
}

func numberColumn(row map[string]string, candidates []string) float64 {
	v, ok := lookupColumn(row, candidates)
	if !ok {
		return 0
	}
	return ParseNumber(v)
}

func intColumn(row map[string]string, candidates []string) int64 {
	return int64(numberColumn(row, candidates))
}

func dateColumn(row map[string]string, candidates []string) time.Time {
	v, _ := lookupColumn(row, candidates)
	return ParseDate(v)
}
