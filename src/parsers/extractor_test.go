package parsers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

func TestCampaignParser_Parse(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Campaign Name,Campaign ID,Impressions,Clicks,Spend,Sales,Orders,Units",
		"2024-03-01,Fantasy Book Launch,C1,1000,20,$10.00,\"$1,040.00\",4,5",
		"2024-03-02,Fantasy Book Launch,C1,500,5,5.00,0,0,0",
	}, "\n")

	parser, err := GetParser(models.ReportSponsoredProductsCampaign)
	require.NoError(t, err)

	records, err := parser.Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Fantasy Book Launch", first.CampaignName)
	assert.Equal(t, "C1", first.CampaignID)
	assert.True(t, first.Date.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(1000), first.Impressions)
	assert.Equal(t, int64(20), first.Clicks)
	assert.Equal(t, 10.0, first.Spend)
	assert.Equal(t, 1040.0, first.Sales)
	assert.Equal(t, int64(4), first.Orders)
	assert.Equal(t, int64(5), first.Units)

	// Derived metrics are computed from the raw counters.
	assert.InDelta(t, 2.0, first.CTR, 1e-9)
	assert.InDelta(t, 0.5, first.CPC, 1e-9)
	assert.InDelta(t, 10.0/1040.0*100, first.ACOS, 1e-9)
	assert.InDelta(t, 104.0, first.ROAS, 1e-9)
	assert.InDelta(t, 20.0, first.ConversionRate, 1e-9)

	// Zero denominators stay zero instead of NaN.
	second := records[1]
	assert.Equal(t, 0.0, second.ACOS)
	assert.Equal(t, 0.0, second.ConversionRate)
}

func TestCampaignParser_SkipsRowsWithoutCampaignName(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Campaign Name,Impressions,Clicks,Spend,Sales",
		"2024-03-01,Keep Me,100,2,1.00,4.00",
		"2024-03-01,,100,2,1.00,4.00",
		"2024-03-02,Keep Me Too,50,1,0.50,0",
	}, "\n")

	parser, err := GetParser(models.ReportSponsoredProductsCampaign)
	require.NoError(t, err)

	records, err := parser.Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Keep Me", records[0].CampaignName)
	assert.Equal(t, "Keep Me Too", records[1].CampaignName)
}

func TestKeywordParser_Parse(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Campaign Name,Keyword,Match Type,Impressions,Clicks,Spend,Attributed Sales 7d,Attributed Orders 7d",
		"2024-03-01,Series Ads,epic fantasy,broad,800,16,8.00,32.00,2",
		"2024-03-01,,,exact,100,1,0.50,0,0",
	}, "\n")

	parser, err := GetParser(models.ReportSponsoredProductsKeyword)
	require.NoError(t, err)

	records, err := parser.Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	// Row with neither keyword nor campaign name is skipped.
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "epic fantasy", r.Keyword)
	assert.Equal(t, "broad", r.MatchType)
	assert.Equal(t, 32.0, r.Sales)
	assert.Equal(t, int64(2), r.Orders)
	assert.InDelta(t, 25.0, r.ACOS, 1e-9)
}

func TestSearchTermParser_KeepsRawCountersOnly(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Campaign Name,Customer Search Term,Keyword,Match Type,Impressions,Clicks,Spend,Sales",
		"2024-03-01,Series Ads,dragon books for adults,epic fantasy,broad,200,4,2.00,16.00",
		"2024-03-01,Series Ads,,epic fantasy,broad,50,0,0,0",
	}, "\n")

	parser, err := GetParser(models.ReportSearchTerm)
	require.NoError(t, err)

	records, err := parser.Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	// Row without a search term is skipped.
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "dragon books for adults", r.SearchTerm)
	assert.Equal(t, 2.0, r.Spend)
	// Search-term rows are diagnostic: no derived ratios.
	assert.Equal(t, 0.0, r.ACOS)
	assert.Equal(t, 0.0, r.ROAS)
	assert.Equal(t, 0.0, r.CTR)
}

func TestParse_HeaderVariants(t *testing.T) {
	// Legacy column spellings resolve to the same canonical fields.
	csvData := strings.Join([]string{
		"Day,Campaign,Impr,Click,Cost,Attributed Sales 14d",
		"2024-03-01,Old Export,300,6,3.00,12.00",
	}, "\n")

	parser, err := GetParser(models.ReportSponsoredProductsCampaign)
	require.NoError(t, err)

	records, err := parser.Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "Old Export", r.CampaignName)
	assert.Equal(t, int64(300), r.Impressions)
	assert.Equal(t, int64(6), r.Clicks)
	assert.Equal(t, 3.0, r.Spend)
	assert.Equal(t, 12.0, r.Sales)
}

func TestGetParser_UnknownType(t *testing.T) {
	_, err := GetParser(models.ReportType("not_a_report"))
	assert.Error(t, err)
}

func TestReadHeaderRow(t *testing.T) {
	headers, err := ReadHeaderRow(strings.NewReader("Date,Campaign Name,Spend\n2024-03-01,X,1.00\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Campaign Name", "Spend"}, headers)
}
