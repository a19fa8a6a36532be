package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/adlytics/backend/src/models"
)

func TestDetectReportType_Filename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     models.ReportType
	}{
		{"sp campaign", "Sponsored_Products_Campaign_report.csv", models.ReportSponsoredProductsCampaign},
		{"sp keyword", "sponsored_products_keyword_report.csv", models.ReportSponsoredProductsKeyword},
		{"sp targeting counts as keyword", "sponsored_products_targeting.csv", models.ReportSponsoredProductsKeyword},
		{"sb campaign", "sponsored_brands_campaign_2024.csv", models.ReportSponsoredBrandsCampaign},
		{"sb keyword", "sponsored_brands_keyword.csv", models.ReportSponsoredBrandsKeyword},
		{"sd campaign", "sponsored_display_march.csv", models.ReportSponsoredDisplayCampaign},
		{"search term underscore", "search_term_report.csv", models.ReportSearchTerm},
		{"search term hyphen", "my-search-term-export.csv", models.ReportSearchTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectReportType(tt.filename, nil))
		})
	}
}

func TestDetectReportType_HeaderFallback(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    models.ReportType
	}{
		{
			"campaign columns",
			[]string{"Campaign Name", "Impressions", "Clicks", "Spend"},
			models.ReportSponsoredProductsCampaign,
		},
		{
			"keyword column present",
			[]string{"Campaign Name", "Keyword", "Impressions", "Clicks"},
			models.ReportSponsoredProductsKeyword,
		},
		{
			"targeting column present",
			[]string{"campaign name", "targeting", "impressions"},
			models.ReportSponsoredProductsKeyword,
		},
		{
			"search term column",
			[]string{"Search Term", "Clicks", "Spend"},
			models.ReportSearchTerm,
		},
		{
			"nothing recognizable defaults to sp campaign",
			[]string{"col_a", "col_b"},
			models.ReportSponsoredProductsCampaign,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectReportType("export.csv", tt.headers))
		})
	}
}

func TestDetectReportType_FilenameWinsOverHeaders(t *testing.T) {
	headers := []string{"Search Term", "Clicks"}
	got := DetectReportType("sponsored_products_campaign.csv", headers)
	assert.Equal(t, models.ReportSponsoredProductsCampaign, got)
}
