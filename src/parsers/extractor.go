// backend/src/parsers/extractor.go
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
)

// csvReportParser drives the shared CSV loop: read the header, normalize each
// row into a header->value map, and hand it to the type-specific extractor.
type csvReportParser struct {
	reportType models.ReportType
	extractor  rowExtractor
}

func (p *csvReportParser) Parse(file io.Reader) ([]models.CanonicalRecord, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []models.CanonicalRecord
	skipped := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A mangled line is a row-level defect, not a file-level one.
			skipped++
			continue
		}

		row := make(map[string]string, len(columns))
		for i, v := range fields {
			if i < len(columns) {
				row[columns[i]] = strings.TrimSpace(v)
			}
		}

		record, ok := p.extractor.extract(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if skipped > 0 {
		logger.L.Debug("Skipped rows during report parsing",
			"reportType", p.reportType, "skipped", skipped, "extracted", len(records))
	}
	return records, nil
}

// campaignExtractor handles campaign-granularity rows. Sponsored Brands and
// Sponsored Display campaign reports flow through this same extractor as
// Sponsored Products: the exports observed so far share column semantics
// across ad products, so the logic is intentionally not diverged per product.
type campaignExtractor struct{}

func (campaignExtractor) extract(row map[string]string) (models.CanonicalRecord, bool) {
	record := models.CanonicalRecord{
		CampaignID:   stringColumn(row, campaignIDColumns),
		CampaignName: stringColumn(row, campaignNameColumns),
		Date:         dateColumn(row, dateColumns),
		Impressions:  intColumn(row, impressionsColumns),
		Clicks:       intColumn(row, clicksColumns),
		Spend:        numberColumn(row, spendColumns),
		Sales:        numberColumn(row, salesColumns),
		Orders:       intColumn(row, ordersColumns),
		Units:        intColumn(row, unitsColumns),
	}

	// Campaign name is the required identity field; a row without one is
	// unusable downstream and gets skipped instead of aborting the file.
	if record.CampaignName == "" {
		return models.CanonicalRecord{}, false
	}

	record.DeriveMetrics()
	return record, true
}

// keywordExtractor handles keyword/targeting-granularity rows.
type keywordExtractor struct{}

func (keywordExtractor) extract(row map[string]string) (models.CanonicalRecord, bool) {
	record := models.CanonicalRecord{
		CampaignID:   stringColumn(row, campaignIDColumns),
		CampaignName: stringColumn(row, campaignNameColumns),
		Keyword:      stringColumn(row, keywordColumns),
		MatchType:    stringColumn(row, matchTypeColumns),
		Date:         dateColumn(row, dateColumns),
		Impressions:  intColumn(row, impressionsColumns),
		Clicks:       intColumn(row, clicksColumns),
		Spend:        numberColumn(row, spendColumns),
		Sales:        numberColumn(row, salesColumns),
		Orders:       intColumn(row, ordersColumns),
		Units:        intColumn(row, unitsColumns),
	}

	if record.Keyword == "" && record.CampaignName == "" {
		return models.CanonicalRecord{}, false
	}

	record.DeriveMetrics()
	return record, true
}

// searchTermExtractor handles search-term rows. These reports are diagnostic
// rather than optimization targets, so only the raw counters are kept and no
// ratios are derived.
type searchTermExtractor struct{}

func (searchTermExtractor) extract(row map[string]string) (models.CanonicalRecord, bool) {
	record := models.CanonicalRecord{
		CampaignID:   stringColumn(row, campaignIDColumns),
		CampaignName: stringColumn(row, campaignNameColumns),
		SearchTerm:   stringColumn(row, searchTermColumns),
		Keyword:      stringColumn(row, keywordColumns),
		MatchType:    stringColumn(row, matchTypeColumns),
		Date:         dateColumn(row, dateColumns),
		Impressions:  intColumn(row, impressionsColumns),
		Clicks:       intColumn(row, clicksColumns),
		Spend:        numberColumn(row, spendColumns),
		Sales:        numberColumn(row, salesColumns),
		Orders:       intColumn(row, ordersColumns),
	}

	if record.SearchTerm == "" {
		return models.CanonicalRecord{}, false
	}
	return record, true
}
