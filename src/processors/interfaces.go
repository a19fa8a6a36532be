package processors

import (
	"errors"

	"github.com/username/adlytics/backend/src/models"
)

// ErrNoData is returned when an analysis is requested over an empty record
// set. Callers must branch on this rather than receive zeroed aggregates.
var ErrNoData = errors.New("no campaign data found")

// ErrInsufficientReports is returned by the comparison processor when fewer
// than two valid reports are supplied.
var ErrInsufficientReports = errors.New("at least 2 reports required for comparison")

// AnalyticsProcessor folds canonical records into the four aggregate
// structures plus baseline recommendations. Pure function of its input:
// running it twice over the same records yields identical output.
type AnalyticsProcessor interface {
	Analyze(records []models.CanonicalRecord) (*models.Analytics, error)
}

// OptimizationProcessor applies the fixed threshold-and-ranking rule set over
// computed analytics to produce prioritized recommendations.
type OptimizationProcessor interface {
	Optimize(analytics *models.Analytics) *models.OptimizationResult
	CampaignOptimizations(analytics *models.Analytics) []*models.CampaignOptimization
	BidRecommendations(analytics *models.Analytics) []*models.BidRecommendation
	KeywordRecommendations(analytics *models.Analytics) []*models.KeywordRecommendation
	Simulate(summary *models.PerformanceSummary, changes models.SimulationChanges) *models.PerformanceSummary
}

// ComparisonProcessor computes relative deltas across independently
// aggregated reports.
type ComparisonProcessor interface {
	Compare(reports []*models.ReportSummaryRef) ([]*models.ComparisonInsight, error)
}
