package services

import (
	"errors"
	"io"

	"github.com/username/adlytics/backend/src/models"
)

var (
	// ErrParsingFailed wraps any failure to read the uploaded file itself.
	ErrParsingFailed = errors.New("parsing failed")
	// ErrProcessingFailed wraps failures while persisting or aggregating
	// extracted records.
	ErrProcessingFailed = errors.New("processing failed")
	// ErrReportNotFound is returned when a report id does not exist or does
	// not belong to the requesting user.
	ErrReportNotFound = errors.New("report not found")
	// ErrReportNotProcessed is returned when analytics are requested for a
	// report whose upload processing has not completed.
	ErrReportNotProcessed = errors.New("report not yet processed")
)

// ReportStore is the persistence boundary for reports and their extracted
// records. The concrete implementation lives in the database package and is
// constructor-injected so the services stay testable without a live backend.
type ReportStore interface {
	InsertReport(report *models.Report) (int64, error)
	UpdateReportResults(report *models.Report) error
	MarkReportError(reportID int64, message string) error
	GetReport(reportID, userID int64) (*models.Report, error)
	ListReports(userID int64) ([]*models.Report, error)
	DeleteReport(reportID, userID int64) error
	InsertRecords(reportID int64, records []models.CanonicalRecord) error
	GetRecords(reportID int64) ([]models.CanonicalRecord, error)
}

// Upload result status values. StatusNoData marks a file that parsed cleanly
// but yielded zero extractable rows; callers must be able to tell that apart
// from a populated success.
const (
	UploadStatusProcessed = "processed"
	UploadStatusNoData    = "no_data"
)

// UploadResult is the response payload for one processed upload.
type UploadResult struct {
	ReportID       int64             `json:"report_id"`
	ReportType     models.ReportType `json:"report_type"`
	Status         string            `json:"status"`
	Message        string            `json:"message"`
	RowsProcessed  int               `json:"rows_processed"`
	TotalSpend     float64           `json:"total_spend"`
	TotalSales     float64           `json:"total_sales"`
	ACOS           float64           `json:"acos"`
	DateRangeStart string            `json:"date_range_start,omitempty"`
	DateRangeEnd   string            `json:"date_range_end,omitempty"`
}

// UploadService ingests one report file end to end: type detection, row
// extraction, persistence, and the upload summary.
type UploadService interface {
	ProcessUpload(fileReader io.Reader, filename string, userID int64) (*UploadResult, error)
}

// OptimizationResponse is the full optimization payload for one report,
// combining the deterministic rule output with best-effort AI insights.
type OptimizationResponse struct {
	ReportID        int64                          `json:"report_id"`
	ReportName      string                         `json:"report_name"`
	CurrentMetrics  *models.PerformanceSummary     `json:"current_performance"`
	Recommendations *models.OptimizationResult     `json:"recommendations"`
	AIInsights      *models.Insights               `json:"ai_insights"`
	Campaigns       []*models.CampaignOptimization `json:"campaign_optimizations,omitempty"`
	GeneratedAt     string                         `json:"generated_at"`
}

// SimulationResponse pairs current and simulated performance with the delta.
type SimulationResponse struct {
	CurrentPerformance   *models.PerformanceSummary `json:"current_performance"`
	SimulatedPerformance *models.PerformanceSummary `json:"simulated_performance"`
	Impact               *models.SimulationImpact   `json:"impact"`
	ChangesApplied       models.SimulationChanges   `json:"changes_applied"`
}

// ComparisonResponse is the output of comparing several reports.
type ComparisonResponse struct {
	Reports  []*models.ReportSummaryRef  `json:"reports"`
	Insights []*models.ComparisonInsight `json:"comparison_insights"`
}

// AnalyticsService serves all read-side analytics over already-ingested
// reports. Aggregates are recomputed fresh (through a short-lived cache) on
// every request; nothing is maintained incrementally.
type AnalyticsService interface {
	GetReportAnalytics(reportID, userID int64) (*models.Analytics, error)
	GetAnalysisWithInsights(reportID, userID int64) (*models.Analytics, *models.Insights, error)
	GetOptimization(reportID, userID int64) (*OptimizationResponse, error)
	GetCampaignOptimizations(reportID, userID int64) ([]*models.CampaignOptimization, error)
	GetBidRecommendations(reportID, userID int64) ([]*models.BidRecommendation, error)
	GetKeywordRecommendations(reportID, userID int64) ([]*models.KeywordRecommendation, error)
	Simulate(reportID, userID int64, changes models.SimulationChanges) (*SimulationResponse, error)
	CompareReports(reportIDs []int64, userID int64) (*ComparisonResponse, error)
	GetRecords(reportID, userID int64) ([]models.CanonicalRecord, error)
	InvalidateReportCache(reportID int64)
}
