// backend/src/services/analytics_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/adlytics/backend/src/config"
	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/processors"
	"github.com/username/adlytics/backend/src/utils"
)

const (
	ckReportAnalytics = "report_analytics_%d"
	ckReportRecords   = "report_records_%d"

	analyticsCacheDuration = 10 * time.Minute
	insightTimeout         = 35 * time.Second
)

type analyticsServiceImpl struct {
	store          ReportStore
	analyticsProc  processors.AnalyticsProcessor
	optimizerProc  processors.OptimizationProcessor
	comparisonProc processors.ComparisonProcessor
	insightService InsightService
	cache          *cache.Cache
}

func NewAnalyticsService(store ReportStore, insightService InsightService) AnalyticsService {
	ttl := analyticsCacheDuration
	if config.Cfg != nil && config.Cfg.AnalyticsCacheTTL > 0 {
		ttl = config.Cfg.AnalyticsCacheTTL
	}
	return &analyticsServiceImpl{
		store:          store,
		analyticsProc:  processors.NewAnalyticsProcessor(),
		optimizerProc:  processors.NewOptimizationProcessor(),
		comparisonProc: processors.NewComparisonProcessor(),
		insightService: insightService,
		cache:          cache.New(ttl, 2*ttl),
	}
}

// loadReport fetches a report and enforces ownership plus processing state.
func (s *analyticsServiceImpl) loadReport(reportID, userID int64) (*models.Report, error) {
	report, err := s.store.GetReport(reportID, userID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	if report.ProcessingStatus != models.StatusCompleted {
		return nil, ErrReportNotProcessed
	}
	return report, nil
}

func (s *analyticsServiceImpl) loadRecords(reportID int64) ([]models.CanonicalRecord, error) {
	cacheKey := fmt.Sprintf(ckReportRecords, reportID)
	if cached, found := s.cache.Get(cacheKey); found {
		if records, ok := cached.([]models.CanonicalRecord); ok {
			return records, nil
		}
	}
	records, err := s.store.GetRecords(reportID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading records: %v", ErrProcessingFailed, err)
	}
	s.cache.Set(cacheKey, records, cache.DefaultExpiration)
	return records, nil
}

// analyze returns the full analytics for one report. Results are cached per
// report; the cache is invalidated whenever the report's records change.
func (s *analyticsServiceImpl) analyze(reportID, userID int64) (*models.Report, *models.Analytics, error) {
	report, err := s.loadReport(reportID, userID)
	if err != nil {
		return nil, nil, err
	}

	cacheKey := fmt.Sprintf(ckReportAnalytics, reportID)
	if cached, found := s.cache.Get(cacheKey); found {
		if analytics, ok := cached.(*models.Analytics); ok {
			logger.L.Debug("Analytics cache hit", "reportID", reportID)
			return report, analytics, nil
		}
	}

	records, err := s.loadRecords(reportID)
	if err != nil {
		return nil, nil, err
	}
	analytics, err := s.analyticsProc.Analyze(records)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Set(cacheKey, analytics, cache.DefaultExpiration)
	return report, analytics, nil
}

func (s *analyticsServiceImpl) GetReportAnalytics(reportID, userID int64) (*models.Analytics, error) {
	_, analytics, err := s.analyze(reportID, userID)
	return analytics, err
}

func (s *analyticsServiceImpl) GetAnalysisWithInsights(reportID, userID int64) (*models.Analytics, *models.Insights, error) {
	_, analytics, err := s.analyze(reportID, userID)
	if err != nil {
		return nil, nil, err
	}
	return analytics, s.generateInsights(analytics), nil
}

// generateInsights never fails: any provider error is logged and papered over
// with the deterministic stub so analysis responses stay complete.
func (s *analyticsServiceImpl) generateInsights(analytics *models.Analytics) *models.Insights {
	ctx, cancel := context.WithTimeout(context.Background(), insightTimeout)
	defer cancel()

	insights, err := s.insightService.GenerateInsights(ctx, analytics)
	if err != nil {
		logger.L.Warn("Insight provider failed, using stub insights", "error", err)
		stub := &StubInsightService{}
		insights, _ = stub.GenerateInsights(ctx, analytics)
	}
	return insights
}

func (s *analyticsServiceImpl) GetOptimization(reportID, userID int64) (*OptimizationResponse, error) {
	report, analytics, err := s.analyze(reportID, userID)
	if err != nil {
		return nil, err
	}
	result := s.optimizerProc.Optimize(analytics)
	return &OptimizationResponse{
		ReportID:        report.ID,
		ReportName:      report.Filename,
		CurrentMetrics:  analytics.PerformanceSummary,
		Recommendations: result,
		AIInsights:      s.generateInsights(analytics),
		Campaigns:       s.optimizerProc.CampaignOptimizations(analytics),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *analyticsServiceImpl) GetCampaignOptimizations(reportID, userID int64) ([]*models.CampaignOptimization, error) {
	_, analytics, err := s.analyze(reportID, userID)
	if err != nil {
		return nil, err
	}
	return s.optimizerProc.CampaignOptimizations(analytics), nil
}

func (s *analyticsServiceImpl) GetBidRecommendations(reportID, userID int64) ([]*models.BidRecommendation, error) {
	_, analytics, err := s.analyze(reportID, userID)
	if err != nil {
		return nil, err
	}
	return s.optimizerProc.BidRecommendations(analytics), nil
}

func (s *analyticsServiceImpl) GetKeywordRecommendations(reportID, userID int64) ([]*models.KeywordRecommendation, error) {
	_, analytics, err := s.analyze(reportID, userID)
	if err != nil {
		return nil, err
	}
	return s.optimizerProc.KeywordRecommendations(analytics), nil
}

func (s *analyticsServiceImpl) Simulate(reportID, userID int64, changes models.SimulationChanges) (*SimulationResponse, error) {
	_, analytics, err := s.analyze(reportID, userID)
	if err != nil {
		return nil, err
	}
	current := analytics.PerformanceSummary
	simulated := s.optimizerProc.Simulate(current, changes)

	currentProfit := current.TotalSales - current.TotalSpend
	simulatedProfit := simulated.TotalSales - simulated.TotalSpend
	impact := &models.SimulationImpact{
		SpendChange:  utils.RoundFloat(simulated.TotalSpend-current.TotalSpend, 2),
		SalesChange:  utils.RoundFloat(simulated.TotalSales-current.TotalSales, 2),
		ACOSChange:   utils.RoundFloat(simulated.OverallACOS-current.OverallACOS, 2),
		ROASChange:   utils.RoundFloat(simulated.OverallROAS-current.OverallROAS, 2),
		ProfitChange: utils.RoundFloat(simulatedProfit-currentProfit, 2),
	}
	return &SimulationResponse{
		CurrentPerformance:   current,
		SimulatedPerformance: simulated,
		Impact:               impact,
		ChangesApplied:       changes,
	}, nil
}

func (s *analyticsServiceImpl) CompareReports(reportIDs []int64, userID int64) (*ComparisonResponse, error) {
	refs := make([]*models.ReportSummaryRef, 0, len(reportIDs))
	for _, id := range reportIDs {
		report, analytics, err := s.analyze(id, userID)
		if err != nil {
			// Missing or unprocessed reports are skipped, not fatal. The
			// comparison itself enforces the minimum of two usable reports.
			logger.L.Warn("Skipping report in comparison", "reportID", id, "error", err)
			continue
		}
		refs = append(refs, &models.ReportSummaryRef{
			ReportID:   report.ID,
			ReportName: report.Filename,
			Summary:    analytics.PerformanceSummary,
		})
	}

	insights, err := s.comparisonProc.Compare(refs)
	if err != nil {
		return nil, err
	}
	return &ComparisonResponse{Reports: refs, Insights: insights}, nil
}

func (s *analyticsServiceImpl) GetRecords(reportID, userID int64) ([]models.CanonicalRecord, error) {
	if _, err := s.loadReport(reportID, userID); err != nil {
		return nil, err
	}
	return s.loadRecords(reportID)
}

func (s *analyticsServiceImpl) InvalidateReportCache(reportID int64) {
	s.cache.Delete(fmt.Sprintf(ckReportAnalytics, reportID))
	s.cache.Delete(fmt.Sprintf(ckReportRecords, reportID))
}
