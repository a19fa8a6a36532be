// backend/src/parsers/detect.go
package parsers

import (
	"strings"

	"github.com/username/adlytics/backend/src/models"
)

// DetectReportType classifies an export file from its filename, falling back
// to the header row when the filename carries no recognizable pattern. The
// detector never fails: an unrecognizable file defaults to a Sponsored
// Products campaign report, and the extractors tolerate the occasional
// misclassification through their column-mapping fallback.
func DetectReportType(filename string, headers []string) models.ReportType {
	name := strings.ToLower(filename)

	switch {
	case strings.Contains(name, "sponsored_products") && strings.Contains(name, "campaign"):
		return models.ReportSponsoredProductsCampaign
	case strings.Contains(name, "sponsored_products") && (strings.Contains(name, "keyword") || strings.Contains(name, "targeting")):
		return models.ReportSponsoredProductsKeyword
	case strings.Contains(name, "sponsored_brands") && strings.Contains(name, "campaign"):
		return models.ReportSponsoredBrandsCampaign
	case strings.Contains(name, "sponsored_brands") && (strings.Contains(name, "keyword") || strings.Contains(name, "targeting")):
		return models.ReportSponsoredBrandsKeyword
	case strings.Contains(name, "sponsored_display"):
		return models.ReportSponsoredDisplayCampaign
	case strings.Contains(name, "search_term") || strings.Contains(name, "search-term"):
		return models.ReportSearchTerm
	}

	has := make(map[string]bool, len(headers))
	for _, h := range headers {
		has[strings.ToLower(strings.TrimSpace(h))] = true
	}

	if has["campaign name"] && has["impressions"] {
		if has["keyword"] || has["targeting"] {
			return models.ReportSponsoredProductsKeyword
		}
		return models.ReportSponsoredProductsCampaign
	}
	if has["search term"] {
		return models.ReportSearchTerm
	}

	return models.ReportSponsoredProductsCampaign
}
