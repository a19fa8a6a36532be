// backend/src/models/report.go
package models

import "time"

// ReportType identifies the kind of Amazon advertising export a file contains.
// These tags are part of the external vocabulary: they are persisted with each
// report and returned to clients, so their string values must stay stable.
type ReportType string

const (
	ReportSponsoredProductsCampaign ReportType = "sponsored_products_campaign"
	ReportSponsoredProductsKeyword  ReportType = "sponsored_products_keyword"
	ReportSponsoredBrandsCampaign   ReportType = "sponsored_brands_campaign"
	ReportSponsoredBrandsKeyword    ReportType = "sponsored_brands_keyword"
	ReportSponsoredDisplayCampaign  ReportType = "sponsored_display_campaign"
	ReportSearchTerm                ReportType = "search_term"
)

// IsKeywordLevel reports whether records of this type carry keyword identity
// fields rather than campaign-only identity.
func (t ReportType) IsKeywordLevel() bool {
	switch t {
	case ReportSponsoredProductsKeyword, ReportSponsoredBrandsKeyword, ReportSearchTerm:
		return true
	}
	return false
}

// Report is the stored metadata for one uploaded export file.
type Report struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	Filename         string     `json:"filename"`
	StoredName       string     `json:"stored_name"`
	ReportType       ReportType `json:"report_type"`
	UploadDate       time.Time  `json:"upload_date"`
	ProcessingStatus string     `json:"processing_status"` // pending, completed, error
	ErrorMessage     string     `json:"error_message,omitempty"`

	DateRangeStart   time.Time `json:"date_range_start"`
	DateRangeEnd     time.Time `json:"date_range_end"`
	TotalSpend       float64   `json:"total_spend"`
	TotalSales       float64   `json:"total_sales"`
	TotalImpressions int64     `json:"total_impressions"`
	TotalClicks      int64     `json:"total_clicks"`
	ACOS             float64   `json:"acos"`
	RowsProcessed    int       `json:"rows_processed"`
}

// Report processing status values.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// CanonicalRecord is the unified, per-row representation of advertising
// performance data. Each extractor is responsible for populating the identity
// and raw counter fields from the source file; the derived ratios are computed
// once, immediately after parsing, and are never read from the file itself.
type CanonicalRecord struct {
	// --- Identity, populated by the extractor ---
	CampaignID   string    `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	Keyword      string    `json:"keyword,omitempty"`
	MatchType    string    `json:"match_type,omitempty"`
	SearchTerm   string    `json:"search_term,omitempty"`
	Date         time.Time `json:"date"`

	// --- Raw counters ---
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Spend       float64 `json:"spend"`
	Sales       float64 `json:"sales"`
	Orders      int64   `json:"orders"`
	Units       int64   `json:"units"`

	// --- Derived, filled by DeriveMetrics ---
	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	ACOS           float64 `json:"acos"`
	ROAS           float64 `json:"roas"`
	ConversionRate float64 `json:"conversion_rate"`
}

// DeriveMetrics recomputes the ratio fields from the raw counters. Every
// denominator of zero yields a zero ratio rather than an error; inconsistent
// upstream exports make division-by-zero a normal case here, not a defect.
func (r *CanonicalRecord) DeriveMetrics() {
	r.CTR = ratio(float64(r.Clicks), float64(r.Impressions)) * 100
	r.CPC = ratio(r.Spend, float64(r.Clicks))
	r.ACOS = ratio(r.Spend, r.Sales) * 100
	r.ROAS = ratio(r.Sales, r.Spend)
	r.ConversionRate = ratio(float64(r.Orders), float64(r.Clicks)) * 100
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
