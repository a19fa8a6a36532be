package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/processors"
	"github.com/username/adlytics/backend/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

// stubAnalyticsService overrides only the calls a test needs; anything else
// panics through the embedded nil interface.
type stubAnalyticsService struct {
	services.AnalyticsService

	analytics  *models.Analytics
	insights   *models.Insights
	comparison *services.ComparisonResponse
	err        error
}

func (s *stubAnalyticsService) GetAnalysisWithInsights(reportID, userID int64) (*models.Analytics, *models.Insights, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.analytics, s.insights, nil
}

func (s *stubAnalyticsService) GetReportAnalytics(reportID, userID int64) (*models.Analytics, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.analytics, nil
}

func (s *stubAnalyticsService) CompareReports(reportIDs []int64, userID int64) (*services.ComparisonResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.comparison, nil
}

func authedRequest(method, target, id string, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if id != "" {
		r.SetPathValue("id", id)
	}
	ctx := context.WithValue(r.Context(), userIDContextKey, int64(1))
	return r.WithContext(ctx)
}

func sampleAnalytics() *models.Analytics {
	return &models.Analytics{
		PerformanceSummary: &models.PerformanceSummary{TotalSpend: 10, TotalSales: 40, OverallACOS: 25},
		CampaignAnalysis:   &models.CampaignAnalysis{TotalCampaigns: 1},
		TrendAnalysis:      &models.TrendAnalysis{TrendDirection: models.TrendStable},
	}
}

func TestHandleGetAnalysis_Success(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{
		analytics: sampleAnalytics(),
		insights:  &models.Insights{Insights: []string{"looks fine"}},
	})

	w := httptest.NewRecorder()
	h.HandleGetAnalysis(w, authedRequest(http.MethodGet, "/api/analysis/3", "3", ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.Equal(t, "no-cache, private", w.Header().Get("Cache-Control"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "analysis")
	assert.Contains(t, body, "ai_insights")
	assert.Contains(t, body, "report_id")
}

func TestHandleGetAnalysis_ETagShortCircuit(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{
		analytics: sampleAnalytics(),
		insights:  &models.Insights{},
	})

	first := httptest.NewRecorder()
	h.HandleGetAnalysis(first, authedRequest(http.MethodGet, "/api/analysis/3", "3", ""))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	r := authedRequest(http.MethodGet, "/api/analysis/3", "3", "")
	r.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	h.HandleGetAnalysis(second, r)

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.Bytes())
}

func TestHandleGetAnalysis_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", services.ErrReportNotFound, http.StatusNotFound},
		{"not processed", services.ErrReportNotProcessed, http.StatusConflict},
		{"no data", processors.ErrNoData, http.StatusUnprocessableEntity},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAnalysisHandler(&stubAnalyticsService{err: tt.err})
			w := httptest.NewRecorder()
			h.HandleGetAnalysis(w, authedRequest(http.MethodGet, "/api/analysis/3", "3", ""))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleGetAnalysis_RequiresAuth(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{})

	r := httptest.NewRequest(http.MethodGet, "/api/analysis/3", nil)
	r.SetPathValue("id", "3")
	w := httptest.NewRecorder()
	h.HandleGetAnalysis(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleGetAnalysis_InvalidID(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{})

	for _, id := range []string{"abc", "0", "-4"} {
		w := httptest.NewRecorder()
		h.HandleGetAnalysis(w, authedRequest(http.MethodGet, "/api/analysis/"+id, id, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
	}
}

func TestHandleGetTrends(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{analytics: sampleAnalytics()})

	w := httptest.NewRecorder()
	h.HandleGetTrends(w, authedRequest(http.MethodGet, "/api/analysis/3/trends", "3", ""))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		TrendAnalysis *models.TrendAnalysis `json:"trend_analysis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.TrendStable, body.TrendAnalysis.TrendDirection)
}

func TestHandleCompareReports_Validation(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleCompareReports(w, authedRequest(http.MethodPost, "/api/analysis/compare", "", "{not json"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("fewer than two ids", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleCompareReports(w, authedRequest(http.MethodPost, "/api/analysis/compare", "", `{"report_ids":[1]}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleCompareReports_Success(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{
		comparison: &services.ComparisonResponse{
			Reports: []*models.ReportSummaryRef{
				{ReportID: 1, ReportName: "a.csv", Summary: &models.PerformanceSummary{}},
				{ReportID: 2, ReportName: "b.csv", Summary: &models.PerformanceSummary{}},
			},
			Insights: []*models.ComparisonInsight{{Type: "acos_comparison"}},
		},
	})

	w := httptest.NewRecorder()
	h.HandleCompareReports(w, authedRequest(http.MethodPost, "/api/analysis/compare", "", `{"report_ids":[1,2]}`))

	require.Equal(t, http.StatusOK, w.Code)
	var body services.ComparisonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Reports, 2)
	assert.Len(t, body.Insights, 1)
}

func TestHandleCompareReports_InsufficientUsableReports(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalyticsService{err: processors.ErrInsufficientReports})

	w := httptest.NewRecorder()
	h.HandleCompareReports(w, authedRequest(http.MethodPost, "/api/analysis/compare", "", `{"report_ids":[1,2]}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
