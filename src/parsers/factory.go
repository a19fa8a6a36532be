// backend/src/parsers/factory.go
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/username/adlytics/backend/src/models"
)

func GetParser(reportType models.ReportType) (Parser, error) {
	switch reportType {
	case models.ReportSponsoredProductsCampaign,
		models.ReportSponsoredBrandsCampaign,
		models.ReportSponsoredDisplayCampaign:
		return &csvReportParser{reportType: reportType, extractor: campaignExtractor{}}, nil
	case models.ReportSponsoredProductsKeyword,
		models.ReportSponsoredBrandsKeyword:
		return &csvReportParser{reportType: reportType, extractor: keywordExtractor{}}, nil
	case models.ReportSearchTerm:
		return &csvReportParser{reportType: reportType, extractor: searchTermExtractor{}}, nil
	default:
		return nil, fmt.Errorf("no parser available for report type: %s", reportType)
	}
}

// ReadHeaderRow reads just the first CSV row, for report-type detection before
// the full parse.
func ReadHeaderRow(file io.Reader) ([]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	return header, nil
}
