package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/processors"
)

func seedCompletedReport(store *fakeReportStore, userID int64, records []models.CanonicalRecord) int64 {
	id, _ := store.InsertReport(&models.Report{
		UserID:           userID,
		Filename:         "report.csv",
		ReportType:       models.ReportSponsoredProductsCampaign,
		ProcessingStatus: models.StatusCompleted,
	})
	store.records[id] = records
	return id
}

func sampleRecords(spend, sales float64) []models.CanonicalRecord {
	r := models.CanonicalRecord{
		CampaignID:   "C1",
		CampaignName: "Campaign C1",
		Spend:        spend,
		Sales:        sales,
		Impressions:  1000,
		Clicks:       20,
		Orders:       2,
	}
	r.DeriveMetrics()
	return []models.CanonicalRecord{r}
}

func TestGetReportAnalytics_Guards(t *testing.T) {
	store := newFakeReportStore()
	svc := NewAnalyticsService(store, &StubInsightService{})

	t.Run("unknown report", func(t *testing.T) {
		_, err := svc.GetReportAnalytics(99, 1)
		assert.ErrorIs(t, err, ErrReportNotFound)
	})

	t.Run("other user's report", func(t *testing.T) {
		id := seedCompletedReport(store, 1, sampleRecords(10, 40))
		_, err := svc.GetReportAnalytics(id, 2)
		assert.ErrorIs(t, err, ErrReportNotFound)
	})

	t.Run("pending report", func(t *testing.T) {
		id, _ := store.InsertReport(&models.Report{UserID: 1, ProcessingStatus: models.StatusPending})
		_, err := svc.GetReportAnalytics(id, 1)
		assert.ErrorIs(t, err, ErrReportNotProcessed)
	})

	t.Run("report with no records", func(t *testing.T) {
		id := seedCompletedReport(store, 1, nil)
		_, err := svc.GetReportAnalytics(id, 1)
		assert.ErrorIs(t, err, processors.ErrNoData)
	})
}

func TestGetReportAnalytics_ComputesAndCaches(t *testing.T) {
	store := newFakeReportStore()
	svc := NewAnalyticsService(store, &StubInsightService{})
	id := seedCompletedReport(store, 1, sampleRecords(10, 40))

	analytics, err := svc.GetReportAnalytics(id, 1)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, analytics.PerformanceSummary.OverallACOS, 1e-9)

	// Swapping the stored records behind the cache does not change the
	// answer until the cache is invalidated.
	store.records[id] = sampleRecords(50, 40)

	cached, err := svc.GetReportAnalytics(id, 1)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, cached.PerformanceSummary.OverallACOS, 1e-9)

	svc.InvalidateReportCache(id)

	fresh, err := svc.GetReportAnalytics(id, 1)
	require.NoError(t, err)
	assert.InDelta(t, 125.0, fresh.PerformanceSummary.OverallACOS, 1e-9)
}

func TestGetAnalysisWithInsights_StubAlwaysAnswers(t *testing.T) {
	store := newFakeReportStore()
	svc := NewAnalyticsService(store, &StubInsightService{})
	id := seedCompletedReport(store, 1, sampleRecords(10, 40))

	analytics, insights, err := svc.GetAnalysisWithInsights(id, 1)
	require.NoError(t, err)
	require.NotNil(t, analytics)
	require.NotNil(t, insights)
	assert.NotEmpty(t, insights.Insights)
}

func TestGetOptimization(t *testing.T) {
	store := newFakeReportStore()
	svc := NewAnalyticsService(store, &StubInsightService{})
	id := seedCompletedReport(store, 1, sampleRecords(60, 100))

	resp, err := svc.GetOptimization(id, 1)
	require.NoError(t, err)

	assert.Equal(t, id, resp.ReportID)
	assert.Equal(t, "report.csv", resp.ReportName)
	require.NotNil(t, resp.Recommendations)
	require.NotNil(t, resp.AIInsights)
	assert.NotEmpty(t, resp.GeneratedAt)
	require.Len(t, resp.Campaigns, 1)

	// ACOS 60 with spend above the floor trips the high-ACOS rule.
	require.Len(t, resp.Recommendations.CampaignRecommendations, 1)
	assert.Equal(t, "high_acos", resp.Recommendations.CampaignRecommendations[0].Type)
}

func TestSimulate_Impact(t *testing.T) {
	store := newFakeReportStore()
	svc := NewAnalyticsService(store, &StubInsightService{})
	// Spend 100, sales 200.
	records := sampleRecords(100, 200)
	records[0].Clicks = 100
	id := seedCompletedReport(store, 1, records)

	resp, err := svc.Simulate(id, 1, models.SimulationChanges{BudgetAdjustment: 20})
	require.NoError(t, err)

	assert.InDelta(t, 120.0, resp.SimulatedPerformance.TotalSpend, 1e-9)
	assert.InDelta(t, 228.0, resp.SimulatedPerformance.TotalSales, 1e-9)
	assert.InDelta(t, 20.0, resp.Impact.SpendChange, 1e-9)
	assert.InDelta(t, 28.0, resp.Impact.SalesChange, 1e-9)
	// Profit goes from 100 to 108.
	assert.InDelta(t, 8.0, resp.Impact.ProfitChange, 1e-9)
	assert.Equal(t, models.SimulationChanges{BudgetAdjustment: 20}, resp.ChangesApplied)

	// Current performance is reported unchanged.
	assert.InDelta(t, 100.0, resp.CurrentPerformance.TotalSpend, 1e-9)
}

func TestCompareReports(t *testing.T) {
	store := newFakeReportStore()
	svc := NewAnalyticsService(store, &StubInsightService{})
	first := seedCompletedReport(store, 1, sampleRecords(20, 100))
	second := seedCompletedReport(store, 1, sampleRecords(60, 100))

	t.Run("two valid reports", func(t *testing.T) {
		resp, err := svc.CompareReports([]int64{first, second}, 1)
		require.NoError(t, err)
		require.Len(t, resp.Reports, 2)
		require.Len(t, resp.Insights, 3)
	})

	t.Run("missing reports are skipped", func(t *testing.T) {
		resp, err := svc.CompareReports([]int64{first, 999, second}, 1)
		require.NoError(t, err)
		require.Len(t, resp.Reports, 2)
	})

	t.Run("fewer than two usable reports", func(t *testing.T) {
		_, err := svc.CompareReports([]int64{first, 999}, 1)
		assert.ErrorIs(t, err, processors.ErrInsufficientReports)
	})
}

func TestGetRecords(t *testing.T) {
	store := newFakeReportStore()
	svc := NewAnalyticsService(store, &StubInsightService{})
	id := seedCompletedReport(store, 1, sampleRecords(10, 40))

	records, err := svc.GetRecords(id, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Campaign C1", records[0].CampaignName)

	_, err = svc.GetRecords(id, 2)
	assert.ErrorIs(t, err, ErrReportNotFound)
}
